package result

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todoapp/internal/todo"
)

// Exporter renders the full todo list, newest first, in one of three
// formats.
type Exporter struct{ st todo.Store }

func NewExporter(st todo.Store) *Exporter { return &Exporter{st: st} }

func (e *Exporter) Export(ctx context.Context, format string) ([]byte, error) {
	all, err := e.st.All(ctx)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(all, "", "  ")
	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "completed", "created_at"})
		for _, t := range all {
			_ = w.Write([]string{
				fmt.Sprint(t.ID),
				t.Title,
				fmt.Sprint(t.Completed),
				t.CreatedAt.Format(time.RFC3339),
			})
		}
		w.Flush()
		return []byte(b.String()), nil
	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Todo List")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		for _, t := range all {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s #%d %s (created %s)", mark, t.ID, t.Title, t.CreatedAt.Format("2006-01-02 15:04"))
			pdf.MultiCell(0, 6, line, "0", "L", false)
		}
		var buf strings.Builder
		if err := pdf.Output(io.Writer(&buf)); err != nil {
			return nil, err
		}
		return []byte(buf.String()), nil
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}
