// Package argparse parses command-line options from a declarative table of
// option descriptors and generates usage and help text from the same table.
//
// Options may be given in short form (-v), clustered (-vf), with attached
// values (-ofile, --output=file) or separate ones (-o file, --output file).
// Long options may be abbreviated to any unambiguous prefix, and boolean and
// bit options may be negated with a "no-" prefix (--no-verbose). The argument
// "--" ends option processing.
package argparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/shlex"
)

type Flag int

const (
	// StopAtNonOption ends parsing at the first positional argument, which
	// is returned along with everything after it.
	StopAtNonOption Flag = 1 << iota
)

var (
	osExit           = os.Exit // Mockable for testing
	stderr io.Writer = os.Stderr
)

// Parser holds a validated option table along with the text used for help
// output. A Parser may be reused for any number of sequential Parse calls.
type Parser struct {
	Output io.Writer // where Usage writes; os.Stdout if nil
	Width  int       // help text width; detected or 80 if zero

	options     []Option
	usages      []string
	flags       Flag
	description string
	epilog      string
}

// New validates options and returns a Parser for them. The usage lines are
// printed at the top of help output.
func New(options []Option, usages []string, flags Flag) (*Parser, error) {
	if err := validateTable(options); err != nil {
		return nil, err
	}
	p := &Parser{
		options: options,
		usages:  usages,
		flags:   flags,
	}
	return p, nil
}

// MustNew is like New but panics if the table is malformed.
func MustNew(options []Option, usages []string, flags Flag) *Parser {
	p, err := New(options, usages, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// Describe sets the text printed after the usage lines and after the option
// list.
func (p *Parser) Describe(description, epilog string) *Parser {
	p.description = description
	p.epilog = epilog
	return p
}

// Parse processes args, which should not include the program name, and
// returns the arguments that were not consumed as options or option values.
// Options are applied as they are seen, so on error every option before the
// failing one has already been stored.
func (p *Parser) Parse(args []string) ([]string, error) {
	s := newState(p, args)
	err := s.run()
	return s.out, err
}

// ParseString splits line into arguments using shell quoting rules and
// parses them.
func (p *Parser) ParseString(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("argparse: splitting %q: %w", line, err)
	}
	return p.Parse(args)
}

// ParseOrExit parses args and exits the process the conventional way when
// parsing doesn't succeed: with status 0 after help was shown, or with
// status 1 after printing the error and usage to stderr.
func (p *Parser) ParseOrExit(args []string) []string {
	rest, err := p.Parse(args)
	switch {
	case err == nil:
	case errors.Is(err, ErrHelp):
		osExit(0)
	default:
		fmt.Fprintf(stderr, "%s %v\n", errorPrefix(stderr), err)
		_ = p.WriteUsage(stderr)
		osExit(1)
	}
	return rest
}

// errorPrefix returns "error:", in red when w is a terminal.
func errorPrefix(w io.Writer) string {
	c := color.New(color.FgRed, color.Bold)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint("error:")
}

func (p *Parser) findShort(r rune) *Option {
	for i := range p.options {
		o := &p.options[i]
		if o.matchable() && o.Short != 0 && o.Short == r {
			return o
		}
	}
	return nil
}

type longMatch struct {
	opt     *Option
	negated bool
}

func (m longMatch) name() string {
	if m.negated {
		return "--no-" + m.opt.Long
	}
	return "--" + m.opt.Long
}

// findLong resolves a long option name. An exact name beats an exact negation,
// which beats an abbreviation; an abbreviation must match exactly one name.
func (p *Parser) findLong(name string) (longMatch, []longMatch) {
	if name == "" {
		return longMatch{}, nil
	}

	for i := range p.options {
		o := &p.options[i]
		if o.matchable() && o.Long != "" && o.Long == name {
			return longMatch{opt: o}, nil
		}
	}

	rest, negated := strings.CutPrefix(name, "no-")
	negated = negated && rest != ""
	if negated {
		for i := range p.options {
			o := &p.options[i]
			if o.negatable() && o.Long != "" && o.Long == rest {
				return longMatch{opt: o, negated: true}, nil
			}
		}
	}

	var matches []longMatch
	for i := range p.options {
		o := &p.options[i]
		if !o.matchable() || o.Long == "" {
			continue
		}
		if strings.HasPrefix(o.Long, name) {
			matches = append(matches, longMatch{opt: o})
		} else if negated && o.negatable() && strings.HasPrefix(o.Long, rest) {
			matches = append(matches, longMatch{opt: o, negated: true})
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	return longMatch{}, matches
}

// State is the cursor over one Parse call's arguments. Callbacks receive it
// to inspect the value that triggered them. The cursor only moves forward and
// only the parser moves it.
type State struct {
	args     []string
	optIndex int // the next argument to process

	parser  *Parser
	out     []string // residual arguments, in order
	value   string   // raw value of the option being dispatched
	negated bool     // whether the option being dispatched was negated
}

func newState(p *Parser, args []string) *State {
	s := &State{
		args:   args,
		parser: p,
	}
	return s
}

func (s *State) Parser() *Parser {
	return s.parser
}

// Args returns the arguments being parsed. They must not be modified.
func (s *State) Args() []string {
	return s.args
}

// Index returns the index in Args of the next argument to process.
func (s *State) Index() int {
	return s.optIndex
}

// Value returns the raw text of the current option's value, or "" for
// options that take none.
func (s *State) Value() string {
	return s.value
}

// Negated reports whether the current option was given in --no- form.
func (s *State) Negated() bool {
	return s.negated
}

// Residual returns the positional arguments collected so far.
func (s *State) Residual() []string {
	return s.out
}

func (s *State) run() error {
	for s.optIndex < len(s.args) {
		arg := s.args[s.optIndex]

		var err error
		switch {
		case arg == "--":
			s.optIndex++
			s.finish()
			return nil
		case strings.HasPrefix(arg, "--"):
			err = s.readLong(arg)
		case len(arg) > 1 && arg[0] == '-':
			err = s.readShort(arg)
		default:
			if s.parser.flags&StopAtNonOption != 0 {
				s.finish()
				return nil
			}
			s.out = append(s.out, arg)
			s.optIndex++
		}

		if errors.Is(err, ErrStop) {
			s.finish()
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// finish moves every unprocessed argument to the residual.
func (s *State) finish() {
	s.out = append(s.out, s.args[s.optIndex:]...)
	s.optIndex = len(s.args)
}

func (s *State) readLong(arg string) error {
	s.optIndex++

	name, inline, hasInline := strings.Cut(arg[len("--"):], "=")
	m, candidates := s.parser.findLong(name)
	if m.opt == nil {
		if len(candidates) > 1 {
			err := &OptionError{Err: ErrAmbiguousOption, Option: "--" + name, Token: arg}
			for _, c := range candidates {
				err.Candidates = append(err.Candidates, c.name())
			}
			return err
		}
		return &OptionError{Err: ErrUnknownOption, Option: "--" + name, Token: arg}
	}

	return s.dispatch(m.opt, m.name(), arg, m.negated, inline, hasInline)
}

func (s *State) readShort(arg string) error {
	s.optIndex++

	for i := len("-"); i < len(arg); {
		r, size := utf8.DecodeRuneInString(arg[i:])
		i += size
		name := "-" + string(r)

		opt := s.parser.findShort(r)
		if opt == nil {
			return &OptionError{Err: ErrUnknownOption, Option: name, Token: arg}
		}

		if opt.Kind.takesValue() {
			// the rest of the arg, if any, is the value
			rest := arg[i:]
			return s.dispatch(opt, name, arg, false, rest, rest != "")
		}

		if err := s.dispatch(opt, name, arg, false, "", false); err != nil {
			return err
		}
	}

	return nil
}

// resolve finds the value for opt: the inline value when there is one,
// otherwise the next argument.
func (s *State) resolve(opt *Option, name, arg, inline string, hasInline bool) (string, error) {
	if !opt.Kind.takesValue() {
		if hasInline {
			return "", &OptionError{Err: ErrUnexpectedValue, Option: name, Token: arg, Value: inline}
		}
		return "", nil
	}

	if hasInline {
		return inline, nil
	}
	if s.optIndex >= len(s.args) {
		return "", &OptionError{Err: ErrMissingArgument, Option: name, Token: arg}
	}
	value := s.args[s.optIndex]
	s.optIndex++
	return value, nil
}

func (s *State) dispatch(opt *Option, name, arg string, negated bool, inline string, hasInline bool) error {
	value, err := s.resolve(opt, name, arg, inline, hasInline)
	if err != nil {
		return err
	}

	if err := opt.store(value, negated); err != nil {
		return &OptionError{Err: ErrInvalidNumber, Option: name, Token: arg, Value: value, cause: err}
	}

	if opt.Callback == nil {
		return nil
	}
	s.value, s.negated = value, negated
	defer func() { s.value, s.negated = "", false }()
	return opt.Callback(s, opt)
}
