// Package watch rebuilds a site whenever its sources change.
//
// Filesystem events and periodic ticks are produced on background goroutines
// but every rebuild runs on the single loop inside Run, so builds never overlap.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Reason says why a rebuild was started.
type Reason string

const (
	ReasonInitial  Reason = "initial"
	ReasonChange   Reason = "change"
	ReasonSchedule Reason = "schedule"
)

// RebuildFunc performs one build. A returned error is logged and watching continues.
type RebuildFunc func(ctx context.Context, reason Reason) error

// Options configures Run.
type Options struct {
	// Dirs are watched recursively. Missing directories are skipped.
	Dirs []string
	// Exclude lists directories that are never watched, such as the output
	// and state directories.
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Interval enables periodic rebuilds when positive.
	Interval time.Duration
}

// Run performs an initial build and then rebuilds on every debounced change
// or scheduler tick until ctx is canceled.
func Run(ctx context.Context, opts Options, rebuild RebuildFunc) error {
	if rebuild == nil {
		return fmt.Errorf("watch: rebuild function is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w := &watcher{
		exclude:  absPaths(opts.Exclude),
		debounce: opts.Debounce,
		requests: make(chan Reason, 1),
	}

	runRebuild(ctx, rebuild, ReasonInitial)
	if ctx.Err() != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	w.fs = fw

	watched := 0
	for _, dir := range absPaths(opts.Dirs) {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			slog.Debug("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		watched += w.addDirsRecursive(dir)
	}
	slog.Info("Watching for changes", logfields.Count(watched))

	if opts.Interval > 0 {
		sched, schedErr := NewScheduler()
		if schedErr != nil {
			return schedErr
		}
		if _, schedErr = sched.Every("periodic-rebuild", opts.Interval, func() { w.request(ReasonSchedule) }); schedErr != nil {
			_ = sched.Stop()
			return schedErr
		}
		sched.Start()
		defer func() {
			if stopErr := sched.Stop(); stopErr != nil {
				slog.Warn("scheduler shutdown failed", logfields.Error(stopErr))
			}
		}()
	}
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(werr))
		case reason := <-w.requests:
			runRebuild(ctx, rebuild, reason)
		}
	}
}

func runRebuild(ctx context.Context, rebuild RebuildFunc, reason Reason) {
	slog.Info("Rebuilding site", slog.String("reason", string(reason)))
	start := time.Now()
	if err := rebuild(ctx, reason); err != nil {
		slog.Warn("rebuild failed", logfields.Error(err), logfields.Duration(time.Since(start)))
		return
	}
	slog.Debug("Rebuild finished", logfields.Duration(time.Since(start)))
}

type watcher struct {
	fs       *fsnotify.Watcher
	exclude  []string
	debounce time.Duration
	requests chan Reason

	mu    sync.Mutex
	timer *time.Timer
}

// request queues a rebuild; requests arriving while one is queued collapse into it.
func (w *watcher) request(reason Reason) {
	select {
	case w.requests <- reason:
	default:
	}
}

func (w *watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.request(ReasonChange) })
}

func (w *watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || w.excluded(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func (w *watcher) addDirsRecursive(root string) int {
	added := 0
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.excluded(path) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if addErr := w.fs.Add(path); addErr != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(addErr))
			return nil
		}
		added++
		return nil
	})
	return added
}

func (w *watcher) excluded(path string) bool {
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports events on hidden, editor swap, and OS lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

func absPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
