package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// AnalysisRenderer renders the proxy analysis of a source file
type AnalysisRenderer struct {
	out    io.Writer
	format string
}

// NewAnalysisRenderer creates a new analysis renderer
func NewAnalysisRenderer(out io.Writer, format string) *AnalysisRenderer {
	return &AnalysisRenderer{out: out, format: format}
}

// Render prints the classification, then one row per compiled contract
func (r *AnalysisRenderer) Render(analysis *usecase.ProxyAnalysis) error {
	if done, err := WriteStructured(r.out, r.format, analysis); done {
		return err
	}

	fmt.Fprintf(r.out, "%s  %s\n", headerStyle.Sprint(analysis.File), patternBadge(analysis.Classification.Kind))
	if analysis.Classification.Marker != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("via"), analysis.Classification.Marker)
	}
	fmt.Fprintln(r.out)

	switch analysis.Classification.Kind {
	case domain.PatternNone:
		fmt.Fprintln(r.out, "No upgradeable proxy pattern detected")
		return nil
	case domain.PatternTransparent:
		fmt.Fprintln(r.out, FormatWarning("Transparent proxies are detected but cannot be deployed yet"))
		return nil
	}

	if len(analysis.Contracts) == 0 {
		fmt.Fprintln(r.out, "No contracts compiled from this file")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"CONTRACT", "PROXY", "INITIALIZER", "ACTIONS"})

	for _, name := range analysis.Contracts {
		opts, eligible := analysis.Options[name]
		if !eligible {
			t.AppendRow(table.Row{name, labelStyle.Sprint("-"), "", ""})
			continue
		}
		t.AppendRow(table.Row{
			nameStyle.Sprint(name),
			color.GreenString("✓"),
			initializerLabel(opts.InitializeOptions),
			actionTitles(opts.Options),
		})
	}
	t.Render()
	return nil
}

func patternBadge(kind domain.PatternKind) string {
	label := fmt.Sprintf("[%s]", titleCase(string(kind)))
	switch kind {
	case domain.PatternUUPS:
		label = "[UUPS]"
		return color.New(color.FgGreen, color.Bold).Sprint(label)
	case domain.PatternTransparent:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	default:
		return labelStyle.Sprint(label)
	}
}

func initializerLabel(opts domain.InitializeOptions) string {
	if opts.Inputs == nil {
		return color.RedString("missing initialize")
	}
	placeholders := make([]string, len(opts.InitializeInputs))
	for i, input := range opts.InitializeInputs {
		placeholders[i] = input.Placeholder
	}
	return fmt.Sprintf("%s(%s)", opts.Inputs.Name, strings.Join(placeholders, ", "))
}

func actionTitles(actions []domain.ProxyAction) string {
	titles := make([]string, len(actions))
	for i, action := range actions {
		titles[i] = action.Title
	}
	return strings.Join(titles, ", ")
}
