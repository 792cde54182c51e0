package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: output format %q (want text, json or yaml)", domain.ErrInvalidInput, s)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printer writes text summaries, styled when stdout is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, styled: isTerminal(w)}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.w, p.render(titleStyle, s))
}

func (p *printer) field(key string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", p.render(keyStyle, key+":"), value)
}

func (p *printer) ok(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(okStyle, fmt.Sprintf(format, args...)))
}

func (p *printer) skip(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(skipStyle, fmt.Sprintf(format, args...)))
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// emit writes v in the selected structured format, or runs text for the
// text format.
func emit(cmd *cobra.Command, v any, text func(p *printer)) error {
	format, err := parseFormat(globals.Output)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(newPrinter(cmd))
		return nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
