package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// SpinnerProgressReporter renders proxy transaction stages behind a spinner on stderr
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     os.Stderr,
	}
}

// OnProgress handles progress events. Events carrying an ExecutionStage
// advance the stage trail; other events only update the spinner text.
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if stage, ok := executionStage(event.Stage); ok {
		r.advance(stage, event.Message)
		if stage == usecase.StageDispatched {
			r.spinner.Stop()
			fmt.Fprintln(r.out, renderStages(r.stages, time.Now()))
			r.stages = nil
			return
		}
	}

	if event.Spinner {
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		suffix := event.Message
		if len(r.stages) > 0 {
			suffix = renderStages(r.stages, time.Now())
		}
		r.spinner.Suffix = " " + suffix
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

func (r *SpinnerProgressReporter) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) advance(stage usecase.ExecutionStage, message string) {
	now := time.Now()
	if n := len(r.stages); n > 0 && r.stages[n-1].EndTime.IsZero() {
		r.stages[n-1].EndTime = now
	}
	r.stages = append(r.stages, stageInfo{Stage: stage, StartTime: now, Message: message})
}

func executionStage(name string) (usecase.ExecutionStage, bool) {
	switch stage := usecase.ExecutionStage(name); stage {
	case usecase.StageRequested, usecase.StageEncoding, usecase.StageComposed, usecase.StageDispatched:
		return stage, true
	}
	return "", false
}

// renderStages draws the stage trail, e.g. "✓ Requested → ● Encoding (0s)"
func renderStages(stages []stageInfo, now time.Time) string {
	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		var icon string
		var stageColor *color.Color
		var duration string

		switch {
		case stage.Stage == usecase.StageDispatched:
			icon = "✓"
			stageColor = color.New(color.FgGreen, color.Bold)
		case !stage.EndTime.IsZero():
			icon = "✓"
			stageColor = color.New(color.FgGreen)
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		default:
			icon = "●"
			stageColor = color.New(color.FgYellow)
			duration = fmt.Sprintf(" (%s)", now.Sub(stage.StartTime).Round(time.Second))
		}

		parts = append(parts, fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration))
	}
	return strings.Join(parts, " → ")
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
