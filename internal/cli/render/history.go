package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// HistoryRenderer renders recorded proxy transactions
type HistoryRenderer struct {
	out    io.Writer
	format string
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer, format string) *HistoryRenderer {
	return &HistoryRenderer{out: out, format: format}
}

// Render prints records as a table, newest first
func (r *HistoryRenderer) Render(records []domain.ProxyRecord) error {
	if done, err := WriteStructured(r.out, r.format, records); done {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No proxy transactions recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	t.AppendHeader(table.Row{"TIME", "KIND", "CONTRACT", "CHAIN", "PROXY", "IMPLEMENTATION", "TX"})

	for _, record := range records {
		t.AppendRow(table.Row{
			labelStyle.Sprint(record.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			kindLabel(record.Kind),
			nameStyle.Sprint(record.Contract),
			record.ChainID,
			record.Proxy,
			record.Implementation,
			record.ShortTxHash(),
		})
	}
	t.Render()
	return nil
}

func kindLabel(kind domain.ProxyRecordKind) string {
	label := titleCase(string(kind))
	if kind == domain.ProxyRecordUpgrade {
		return color.YellowString(label)
	}
	return color.GreenString(label)
}
