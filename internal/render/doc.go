// Package render turns page templates and loaded content into HTML files.
//
// Templates use html/template, so every interpolated value is escaped for
// the context it appears in. Every *.html file under the template root that
// is not a page template is shared by all pages (layouts and partials); the
// page template is parsed last so its define blocks override shared ones.
package render
