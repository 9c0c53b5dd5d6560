package argparse

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultWidth = 80
	optIndent    = "    "
	helpGap      = 2
	maxColumn    = 32
)

// Usage writes help to the parser's Output.
func (p *Parser) Usage() {
	w := p.Output
	if w == nil {
		w = os.Stdout
	}
	_ = p.WriteUsage(w)
}

// WriteUsage writes help to w at Parser.Width, or sized to the terminal when
// Width is zero and w is one.
func (p *Parser) WriteUsage(w io.Writer) error {
	_, err := io.WriteString(w, p.Format(p.widthFor(w)))
	return err
}

// widthFor picks Parser.Width, then the terminal width of w, then 80.
func (p *Parser) widthFor(w io.Writer) int {
	if p.Width > 0 {
		return p.Width
	}
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Format renders the usage lines, description, option list and epilog,
// wrapping help text to width columns (80 if width is not positive).
func (p *Parser) Format(width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder

	if len(p.usages) == 0 {
		b.WriteString("Usage:\n")
	}
	for i, usage := range p.usages {
		if i == 0 {
			b.WriteString("Usage: " + usage + "\n")
		} else {
			b.WriteString("   or: " + usage + "\n")
		}
	}

	if p.description != "" {
		b.WriteString("\n" + p.description + "\n")
	}

	column := p.helpColumn()
	first := true
	for i := range p.options {
		o := &p.options[i]
		switch o.Kind {
		case KindEnd:
			continue
		case KindGroup:
			b.WriteString("\n" + o.Help + "\n")
		default:
			if first {
				b.WriteString("\n")
			}
			writeOption(&b, o, column, width)
		}
		first = false
	}

	if p.epilog != "" {
		b.WriteString("\n" + p.epilog + "\n")
	}

	return b.String()
}

// optionString renders the names column of an option, e.g. "-p, --path=<str>".
func optionString(o *Option) string {
	var b strings.Builder
	if o.Short != 0 {
		b.WriteString("-" + string(o.Short))
	}
	if o.Short != 0 && o.Long != "" {
		b.WriteString(", ")
	}
	if o.Long != "" {
		b.WriteString("--" + o.Long)
	}
	switch o.Kind {
	case KindInteger:
		b.WriteString("=<int>")
	case KindFloat:
		b.WriteString("=<flt>")
	case KindString:
		b.WriteString("=<str>")
	}
	return b.String()
}

// helpColumn is where help text starts: the widest option string rounded up
// to a multiple of 4, after the indent and gap. Options wider than maxColumn
// put their help on the next line.
func (p *Parser) helpColumn() int {
	widest := 0
	for i := range p.options {
		o := &p.options[i]
		if !o.matchable() {
			continue
		}
		if n := utf8.RuneCountInString(optionString(o)); n > widest {
			widest = n
		}
	}
	widest = (widest + 3) / 4 * 4
	return min(len(optIndent)+widest+helpGap, maxColumn)
}

func writeOption(b *strings.Builder, o *Option, column, width int) {
	line := optIndent + optionString(o)
	b.WriteString(line)

	if n := utf8.RuneCountInString(line); n+helpGap > column {
		b.WriteString("\n" + strings.Repeat(" ", column))
	} else {
		b.WriteString(strings.Repeat(" ", column-n))
	}

	for i, l := range wrap(o.Help, width-column) {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat(" ", column))
		}
		b.WriteString(l)
	}
	b.WriteString("\n")
}

// wrap breaks text into lines of at most limit characters at spaces. Words longer
// than limit get a line of their own.
func wrap(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if limit < 1 {
		limit = 1
	}

	var lines []string
	line, n := words[0], utf8.RuneCountInString(words[0])
	for _, word := range words[1:] {
		wn := utf8.RuneCountInString(word)
		if n+1+wn > limit {
			lines = append(lines, line)
			line, n = word, wn
			continue
		}
		line += " " + word
		n += 1 + wn
	}
	return append(lines, line)
}
