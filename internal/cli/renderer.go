package cli

import (
	"fmt"
	"io"

	log_records_managing "logkeeper/internal/features/log_records/managing"

	"github.com/charmbracelet/lipgloss"
	"github.com/segmentio/encoding/json"
)

const maxPrintedErrors = 20

var (
	stylePath      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true) // cyan
	styleSucceeded = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))            // green
	styleFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleWarn      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleFaint     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

type SummaryRenderer interface {
	Render(path string, summary *log_records_managing.ImportSummary) error
	RenderFailure(path string, err error) error
}

type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(path string, summary *log_records_managing.ImportSummary) error {
	failed := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failed = styleFailed.Render(failed)
	}

	line := fmt.Sprintf(
		"%s %s, %s %s",
		stylePath.Render(path),
		styleSucceeded.Render(fmt.Sprintf("%d imported", summary.Succeeded)),
		failed,
		styleFaint.Render(fmt.Sprintf("(%s, import %s)", summary.Format, summary.ImportID)),
	)
	if summary.IsCancelled {
		line += " " + styleWarn.Render("cancelled")
	}

	if _, err := fmt.Fprintln(r.w, line); err != nil {
		return err
	}

	for i, recordErr := range summary.Errors {
		if i == maxPrintedErrors {
			_, err := fmt.Fprintln(r.w, styleFaint.Render(
				fmt.Sprintf("  ... %d more", len(summary.Errors)-maxPrintedErrors),
			))
			return err
		}

		if _, err := fmt.Fprintf(
			r.w,
			"  line %d %s %s\n",
			recordErr.Position,
			styleWarn.Render(recordErr.Code),
			recordErr.Message,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *TextRenderer) RenderFailure(path string, err error) error {
	_, writeErr := fmt.Fprintf(r.w, "%s %s\n", stylePath.Render(path), styleFailed.Render(err.Error()))
	return writeErr
}

// JSONRenderer prints one JSON object per file for piping into other tools.
type JSONRenderer struct {
	enc *json.Encoder
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

type jsonLine struct {
	Path    string                              `json:"path"`
	Summary *log_records_managing.ImportSummary `json:"summary,omitempty"`
	Error   string                              `json:"error,omitempty"`
}

func (r *JSONRenderer) Render(path string, summary *log_records_managing.ImportSummary) error {
	return r.enc.Encode(jsonLine{Path: path, Summary: summary})
}

func (r *JSONRenderer) RenderFailure(path string, err error) error {
	return r.enc.Encode(jsonLine{Path: path, Error: err.Error()})
}
