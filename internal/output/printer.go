package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const indentUnit = "  "

// Printer writes the human-readable report. Styling is dropped entirely for the Ascii profile so plain
// output is byte-stable.
type Printer struct {
	out          io.Writer
	plain        bool
	headingStyle lipgloss.Style
	sectionStyle lipgloss.Style
	labelStyle   lipgloss.Style
	failStyle    lipgloss.Style
	passStyle    lipgloss.Style
}

// NewPrinter creates a Printer that writes to out using profile.
func NewPrinter(out io.Writer, profile termenv.Profile) *Printer {
	if out == nil {
		out = io.Discard
	}
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)
	return &Printer{
		out:          out,
		plain:        profile == termenv.Ascii,
		headingStyle: r.NewStyle().Bold(true),
		sectionStyle: r.NewStyle().Bold(true).Underline(true),
		labelStyle:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "110"}),
		failStyle:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		passStyle:    r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Plain creates an unstyled Printer.
func Plain(out io.Writer) *Printer {
	return NewPrinter(out, termenv.Ascii)
}

// Heading writes bold text at indent.
func (p *Printer) Heading(indent int, text string) error {
	return p.line(indent, p.render(p.headingStyle, text))
}

// Section writes a bucket or group title followed by a colon.
func (p *Printer) Section(indent int, title string) error {
	return p.line(indent, p.render(p.sectionStyle, title)+":")
}

// Field writes "label: value".
func (p *Printer) Field(indent int, label string, value any) error {
	return p.line(indent, fmt.Sprintf("%s: %v", p.render(p.labelStyle, label), value))
}

// Status writes an exit code field, highlighted red when nonzero.
func (p *Printer) Status(indent int, label string, code int) error {
	style := p.passStyle
	if code != 0 {
		style = p.failStyle
	}
	return p.line(indent, fmt.Sprintf("%s: %s", p.render(p.labelStyle, label), p.render(style, fmt.Sprint(code))))
}

// Text writes text unstyled.
func (p *Printer) Text(indent int, text string) error {
	return p.line(indent, text)
}

func (p *Printer) Textf(indent int, format string, args ...any) error {
	return p.Text(indent, fmt.Sprintf(format, args...))
}

// Rule writes a horizontal rule of n '=' characters.
func (p *Printer) Rule(n int) error {
	return p.line(0, strings.Repeat("=", n))
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.plain || text == "" {
		return text
	}
	return style.Render(text)
}

func (p *Printer) line(indent int, text string) error {
	_, err := io.WriteString(p.out, strings.Repeat(indentUnit, indent)+strings.TrimRight(text, "\n")+"\n")
	return err
}
