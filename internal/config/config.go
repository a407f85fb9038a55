package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/portfoliobuilder/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up in the project root.
const DefaultFileName = "portfolio.yaml"

// DefaultStateDir holds build manifest and history, outside the output tree.
const DefaultStateDir = ".portfoliobuilder"

// Config represents the site build configuration.
type Config struct {
	// Root is the project root every relative path is resolved against.
	Root string `yaml:"-"`

	Site     SiteConfig        `yaml:"site"`
	Paths    PathsConfig       `yaml:"paths"`
	Content  []ContentType     `yaml:"content"`
	Pages    []Page            `yaml:"pages"`
	Routes   map[string]string `yaml:"routes"`
	NotFound NotFoundConfig    `yaml:"not_found"`
	Links    LinksConfig       `yaml:"links"`
	Logging  LoggingConfig     `yaml:"logging"`
	State    StateConfig       `yaml:"state"`
}

// SiteConfig is exposed to every template as `site`.
type SiteConfig struct {
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Author      string         `yaml:"author,omitempty"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
}

// PathsConfig locates templates, output and the directories merged into it.
type PathsConfig struct {
	Templates string   `yaml:"templates"`
	Output    string   `yaml:"output"`
	Static    []string `yaml:"static"`
	Data      []string `yaml:"data"`
}

// ContentType names a collection of JSON records and the roots scanned for it.
// Roots are scanned in order; on a resolved-path collision the first root wins.
type ContentType struct {
	Name  string   `yaml:"name"`
	Roots []string `yaml:"roots"`
}

// Page maps one template to one output file. Content lists the content
// types exposed to the template under their own names.
type Page struct {
	Template string   `yaml:"template"`
	Output   string   `yaml:"output"`
	Content  []string `yaml:"content,omitempty"`
}

// NotFoundConfig controls the copy of the index page used as a not-found fallback.
type NotFoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Index   string `yaml:"index"`
	Output  string `yaml:"output"`
}

// LinksConfig controls post-render link verification.
type LinksConfig struct {
	Verify bool `yaml:"verify"`
	Strict bool `yaml:"strict"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// StateConfig locates the build manifest and history database.
type StateConfig struct {
	Directory string `yaml:"directory"`
	History   bool   `yaml:"history"`
	Manifest  bool   `yaml:"manifest"`
}

// Default returns the built-in layout: templates in app/templates, output in
// docs, assets from app/static and static, data from data and app/data.
func Default() *Config {
	return &Config{
		Site: SiteConfig{Title: "Portfolio"},
		Paths: PathsConfig{
			Templates: filepath.Join("app", "templates"),
			Output:    "docs",
			Static:    []string{filepath.Join("app", "static"), "static"},
			Data:      []string{"data", filepath.Join("app", "data")},
		},
		Content: []ContentType{
			{Name: "projects", Roots: []string{filepath.Join("data", "projects"), filepath.Join("app", "data", "projects")}},
			{Name: "education", Roots: []string{filepath.Join("data", "education"), filepath.Join("app", "data", "education")}},
		},
		Pages: []Page{
			{Template: "home.html", Output: "index.html"},
			{Template: "projects.html", Output: "projects.html", Content: []string{"projects"}},
			{Template: "education.html", Output: "education.html", Content: []string{"education"}},
			{Template: "contact.html", Output: "contact.html"},
		},
		Routes: map[string]string{
			"pages.home":      "index.html",
			"pages.projects":  "projects.html",
			"pages.education": "education.html",
			"pages.contact":   "contact.html",
		},
		NotFound: NotFoundConfig{Enabled: true, Index: "index.html", Output: "404.html"},
		Links:    LinksConfig{Verify: true},
		Logging:  LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		State:    StateConfig{Directory: DefaultStateDir, History: true, Manifest: true},
	}
}

// Load reads the configuration for the project at root.
//
// When configPath is empty, root/portfolio.yaml is used if present and the
// built-in defaults otherwise. An explicit configPath must exist. Values in
// the file are layered over the defaults; lists replace default lists.
func Load(root, configPath string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve project root").
			WithContext("root", root).Fatal().Build()
	}

	if err := loadEnvFiles(absRoot); err != nil {
		return nil, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(absRoot, DefaultFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(absRoot, configPath)
	}

	cfg := Default()
	cfg.Root = absRoot

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
				WithContext("path", configPath).Fatal().Build()
		}
		slog.Debug("Loaded configuration", "path", configPath)
	case os.IsNotExist(err) && !explicit:
		slog.Debug("No configuration file, using defaults", "path", configPath)
	case os.IsNotExist(err):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Fatal().Build()
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes the default configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create config directory").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}

// Abs resolves p against the project root.
func (c *Config) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// AbsAll resolves every path in ps against the project root.
func (c *Config) AbsAll(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, c.Abs(p))
	}
	return out
}

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string { return c.Abs(c.Paths.Output) }

// TemplateDir returns the absolute template directory.
func (c *Config) TemplateDir() string { return c.Abs(c.Paths.Templates) }

// StateDir returns the absolute state directory.
func (c *Config) StateDir() string { return c.Abs(c.State.Directory) }

// ContentTypeNames returns configured content type names in declaration order.
func (c *Config) ContentTypeNames() []string {
	names := make([]string, 0, len(c.Content))
	for _, ct := range c.Content {
		names = append(names, ct.Name)
	}
	return names
}
