package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithBuildIDAndStage(t *testing.T) {
	ctx := WithStage(WithBuildID(context.Background(), "build-1"), "render_pages")

	lc := GetContext(ctx)
	if lc.BuildID != "build-1" {
		t.Errorf("expected build-1, got %s", lc.BuildID)
	}
	if lc.Stage != "render_pages" {
		t.Errorf("expected render_pages, got %s", lc.Stage)
	}
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	if lc.BuildID != "" || lc.Stage != "" {
		t.Errorf("expected empty context, got %+v", lc)
	}
}

func TestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := WithStage(WithBuildID(context.Background(), "b-42"), "load_content")
	InfoContext(ctx, "loaded", slog.Int("count", 3))
	DebugContext(context.Background(), "plain")

	out := buf.String()
	for _, want := range []string{"build_id=b-42", "stage=load_content", "count=3", "msg=plain"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}
