package build

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/portfoliobuilder/internal/content"
	"git.home.luguber.info/inful/portfoliobuilder/internal/linkverify"
	"git.home.luguber.info/inful/portfoliobuilder/internal/render"
)

// Report captures what a build did. It is filled in stage by stage, so a
// failed build reports everything up to the failing stage.
type Report struct {
	BuildID         string
	Start           time.Time
	End             time.Time
	Outcome         Status
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Errors          []error // fatal or cancellation errors (at most one)
	Warnings        []error // non-fatal stage issues

	StaticFiles     int
	Content         []ContentSummary
	ContentWarnings []content.Warning
	Pages           []render.Page
	NotFound        string // output path of the not-found copy, if written
	Links           *linkverify.Report
	ManifestPath    string
	Commit          string
}

// ContentSummary lists the records loaded for one content type.
type ContentSummary struct {
	Type    string
	Records []RecordSummary
	Hash    string
}

// RecordSummary identifies one loaded record.
type RecordSummary struct {
	Title string
	File  string
}

func newReport(buildID string, start time.Time) *Report {
	return &Report{
		BuildID:         buildID,
		Start:           start,
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *Report) recordStage(name StageName, se *StageError) {
	sc := r.StageCounts[name]
	if se == nil {
		sc.Success++
		r.StageCounts[name] = sc
		return
	}
	r.StageErrorKinds[name] = se.Kind
	switch se.Kind {
	case StageErrorWarning:
		sc.Warning++
		r.Warnings = append(r.Warnings, se)
	case StageErrorCanceled:
		sc.Canceled++
		r.Errors = append(r.Errors, se)
	case StageErrorFatal:
		sc.Fatal++
		r.Errors = append(r.Errors, se)
	}
	r.StageCounts[name] = sc
}

// deriveOutcome sets Outcome from the recorded errors and warnings.
func (r *Report) deriveOutcome() {
	switch {
	case len(r.Errors) > 0:
		r.Outcome = StatusFailed
		for _, err := range r.Errors {
			if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = StatusCanceled
			}
		}
	case len(r.Warnings) > 0:
		r.Outcome = StatusWarning
	default:
		r.Outcome = StatusSuccess
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Records returns the number of records loaded per content type.
func (r *Report) Records() map[string]int {
	out := make(map[string]int, len(r.Content))
	for _, c := range r.Content {
		out[c.Type] = len(c.Records)
	}
	return out
}

// LinkIssues is the number of broken links found, or 0 when links were not verified.
func (r *Report) LinkIssues() int {
	if r.Links == nil {
		return 0
	}
	return len(r.Links.Issues)
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	records := 0
	for _, c := range r.Content {
		records += len(c.Records)
	}
	return fmt.Sprintf("records=%d pages=%d static=%d duration=%s errors=%d warnings=%d content_warnings=%d link_issues=%d outcome=%s",
		records, len(r.Pages), r.StaticFiles, r.Duration().Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), len(r.ContentWarnings), r.LinkIssues(), r.Outcome)
}
