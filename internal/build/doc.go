// Package build runs the site build pipeline.
//
// A build is a fixed sequence of stages: prepare_output, load_content,
// render_pages, not_found_page, verify_links and write_manifest. Stages
// run strictly in order on one goroutine. A stage can fail fatally, which
// aborts the build, or with a warning, which is recorded and the build
// continues. Every build produces a Report, also when it fails.
package build
