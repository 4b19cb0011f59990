package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const timeLayout = "2006-01-02 15:04"

// ColorEnabled reports whether output to f should be styled. NO_COLOR turns
// styling off even on a terminal.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes command output: lists as tables, single resources as YAML.
type Renderer struct {
	w        io.Writer
	color    bool
	location *time.Location
}

func New(w io.Writer, color bool, location *time.Location) *Renderer {
	if location == nil {
		location = time.Local
	}
	return &Renderer{w: w, color: color, location: location}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
)

func (r *Renderer) style(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Table writes rows under headers. An empty table prints a placeholder line.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, r.style(dimStyle, "(none)"))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && r.color {
				return headerStyle
			}
			return cellStyle
		})
	if r.color {
		t = t.BorderStyle(dimStyle)
	}

	_, err := fmt.Fprintln(r.w, t.Render())
	return err
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	encoder := yaml.NewEncoder(r.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return encoder.Close()
}

func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.w, r.style(okStyle, fmt.Sprintf(format, args...)))
}

func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, r.style(errorStyle, "error: ")+err.Error())
}

func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.w, args...)
}

func (r *Renderer) time(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(r.location).Format(timeLayout)
}

func (r *Renderer) optionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return r.time(*t)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
