package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{"debug", slog.LevelDebug, "DEBUG:"},
		{"info", slog.LevelInfo, "INFO:"},
		{"warn", slog.LevelWarn, "WARN:"},
		{"error", slog.LevelError, "ERROR:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewPrettyHandler(&buf, PrettyHandlerOptions{SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug}})

			record := slog.NewRecord(time.Now(), tt.level, "scanning", 0)
			record.AddAttrs(slog.Int("pairs", 42))
			require.NoError(t, h.Handle(ctx, record))

			out := buf.String()
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "scanning")
			assert.Contains(t, out, `"pairs":42`)
		})
	}
}

func TestPrettyHandler_AttrsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{})).With("run", "abc")

	logger.Error("failed", "err", errors.New("disk full"))
	out := buf.String()
	assert.Contains(t, out, `"run":"abc"`)
	assert.Contains(t, out, `"err":"disk full"`)
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, true).Info("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true, false).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestProgress_Throttles(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(New(&buf, false, false), "resolving", time.Hour)
	for i := 0; i < 100; i++ {
		p.Report("pivots", i)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "resolving"))

	p.Done("pivots", 100)
	assert.Contains(t, buf.String(), "resolving done")
}
