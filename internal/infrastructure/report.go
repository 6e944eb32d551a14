package infrastructure

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"quickhull-bench/internal/domain"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/pkg/errors"
)

// ReportWriter renders benchmark results as plain text tables.
type ReportWriter struct {
	out io.Writer
}

func NewReportWriter(out io.Writer) *ReportWriter {
	return &ReportWriter{out: out}
}

// Write renders the timing summary followed by the hull points. roundTrip is
// omitted when zero.
func (w *ReportWriter) Write(res *domain.ResultBundle, roundTrip time.Duration) error {
	if res == nil {
		return errors.New("attempt to write out nil result")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Input points", res.Points})
	t.AppendRow(table.Row{"Workers", res.Workers})
	t.AppendRow(table.Row{"Serial time, s", seconds(res.SerialTime)})
	t.AppendRow(table.Row{"Shared pool time, s", seconds(res.ThreadedTime)})
	t.AppendRow(table.Row{"Isolated pool time, s", seconds(res.ProcessesTime)})
	t.AppendRow(table.Row{"Speedup (shared)", fmt.Sprintf("%.2fx", res.Speedup[0])})
	t.AppendRow(table.Row{"Speedup (isolated)", fmt.Sprintf("%.2fx", res.Speedup[1])})
	if roundTrip > 0 {
		t.AppendRow(table.Row{"Round trip, s", seconds(roundTrip.Seconds())})
	}
	t.AppendRow(table.Row{"Hull size", len(res.Hull)})
	t.Render()

	if _, err := io.WriteString(w.out, "\n"); err != nil {
		return err
	}

	h := table.NewWriter()
	h.SetOutputMirror(w.out)
	h.Style().Format.Header = text.FormatDefault
	h.AppendHeader(table.Row{"#", "X", "Y"})
	for i, p := range res.Hull {
		h.AppendRow(table.Row{i + 1,
			strconv.FormatFloat(p.X, 'f', -1, 64),
			strconv.FormatFloat(p.Y, 'f', -1, 64)})
	}
	h.Render()
	return nil
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
