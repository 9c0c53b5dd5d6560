package argparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Kind int

const (
	KindEnd     Kind = iota // Terminates a table. Optional, but must be last when present.
	KindGroup               // A section header in help output; never matched.
	KindBoolean             // A flag that sets a bool.
	KindBit                 // A flag that sets one bit of an int.
	KindInteger             // An option that takes an int value.
	KindFloat               // An option that takes a float64 value.
	KindString              // An option that takes a string value.
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindGroup:
		return "group"
	case KindBoolean:
		return "boolean"
	case KindBit:
		return "bit"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// takesValue reports whether options of this kind consume a value.
func (k Kind) takesValue() bool {
	return k == KindInteger || k == KindFloat || k == KindString
}

type OptionFlag int

const (
	NoNeg OptionFlag = 1 << iota // Disables the --no-<name> form.
)

// Callback is called after an option's value has been stored. Returning
// ErrStop ends parsing successfully; any other error ends it with that error.
type Callback func(s *State, opt *Option) error

// Option describes one recognized option, or a group header. Build options
// with the constructors so the bound storage matches the kind.
type Option struct {
	Kind     Kind
	Short    rune
	Long     string
	Help     string
	Callback Callback
	Data     int // passed through to callbacks; the bit index for KindBit
	Flags    OptionFlag

	value any
}

func End() Option {
	return Option{Kind: KindEnd}
}

func Group(header string) Option {
	return Option{Kind: KindGroup, Help: header}
}

func Boolean(short rune, long string, value *bool, help string) Option {
	return Option{Kind: KindBoolean, Short: short, Long: long, Help: help, value: value}
}

// Bit sets (or, negated, clears) bit number bit of *value.
func Bit(short rune, long string, value *int, bit int, help string) Option {
	return Option{Kind: KindBit, Short: short, Long: long, Help: help, Data: bit, value: value}
}

func Integer(short rune, long string, value *int, help string) Option {
	return Option{Kind: KindInteger, Short: short, Long: long, Help: help, value: value}
}

func Float(short rune, long string, value *float64, help string) Option {
	return Option{Kind: KindFloat, Short: short, Long: long, Help: help, value: value}
}

func String(short rune, long string, value *string, help string) Option {
	return Option{Kind: KindString, Short: short, Long: long, Help: help, value: value}
}

// Help returns the conventional -h/--help option, which writes help to the
// parser's Output and stops parsing with ErrHelp.
func Help() Option {
	return Boolean('h', "help", nil, "show this help message and exit").
		WithCallback(HelpCallback).
		WithFlags(NoNeg)
}

// HelpCallback writes the parser's help and returns ErrHelp.
func HelpCallback(s *State, _ *Option) error {
	s.Parser().Usage()
	return ErrHelp
}

func (o Option) WithCallback(cb Callback) Option {
	o.Callback = cb
	return o
}

func (o Option) WithData(data int) Option {
	o.Data = data
	return o
}

func (o Option) WithFlags(flags OptionFlag) Option {
	o.Flags |= flags
	return o
}

func (o *Option) negatable() bool {
	return (o.Kind == KindBoolean || o.Kind == KindBit) && o.Flags&NoNeg == 0
}

// matchable reports whether the option can be the target of an argument.
func (o *Option) matchable() bool {
	return o.Kind != KindEnd && o.Kind != KindGroup
}

// store converts value as needed and writes it to the bound storage. Nothing
// is written when conversion fails. Digit separators (1_000) are rejected.
func (o *Option) store(value string, negated bool) error {
	switch o.Kind {
	case KindBoolean:
		if p, _ := o.value.(*bool); p != nil {
			*p = !negated
		}
	case KindBit:
		if p, _ := o.value.(*int); p != nil {
			mask := 1 << o.Data
			if negated {
				*p &^= mask
			} else {
				*p |= mask
			}
		}
	case KindInteger:
		if strings.Contains(value, "_") {
			return &strconv.NumError{Func: "ParseInt", Num: value, Err: strconv.ErrSyntax}
		}
		n, err := strconv.ParseInt(value, 0, strconv.IntSize)
		if err != nil {
			return err
		}
		if p, _ := o.value.(*int); p != nil {
			*p = int(n)
		}
	case KindFloat:
		if strings.Contains(value, "_") {
			return &strconv.NumError{Func: "ParseFloat", Num: value, Err: strconv.ErrSyntax}
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if p, _ := o.value.(*float64); p != nil {
			*p = f
		}
	case KindString:
		if p, _ := o.value.(*string); p != nil {
			*p = value
		}
	}
	return nil
}

// validateTable checks the rules every descriptor table must satisfy.
func validateTable(options []Option) error {
	shorts := map[rune]int{}
	longs := map[string]int{}

	for i := range options {
		o := &options[i]
		bad := func(format string, a ...any) error {
			return &TableError{Index: i, Reason: fmt.Sprintf(format, a...)}
		}

		if o.Kind == KindEnd {
			if i != len(options)-1 {
				return bad("end marker must be the last option")
			}
			continue
		}
		if o.Kind < KindEnd || o.Kind > KindString {
			return bad("unknown kind %d", int(o.Kind))
		}
		if o.Help == "" {
			return bad("missing help text")
		}
		if o.Kind == KindGroup {
			continue
		}

		if o.Short == 0 && o.Long == "" {
			return bad("needs a short or long name")
		}
		if o.Short != 0 {
			if !isLegalOptRune(o.Short) {
				return bad("illegal short name %q", o.Short)
			}
			if j, dup := shorts[o.Short]; dup {
				return bad("short name %q already used by option %d", o.Short, j)
			}
			shorts[o.Short] = i
		}
		if o.Long != "" {
			if strings.HasPrefix(o.Long, "-") || strings.ContainsAny(o.Long, "= \t") {
				return bad("illegal long name %q", o.Long)
			}
			if j, dup := longs[o.Long]; dup {
				return bad("long name %q already used by option %d", o.Long, j)
			}
			longs[o.Long] = i
		}
		if o.Kind == KindBit && (o.Data < 0 || o.Data >= strconv.IntSize) {
			return bad("bit %d out of range", o.Data)
		}
	}

	return nil
}

func isGraph(r rune) bool {
	// POSIX 7.3.1
	// > Define characters to be classified as punctuation characters.
	// > In the POSIX locale, neither the <space> nor any characters in classes alpha, digit, or cntrl shall be included.
	return unicode.IsDigit(r) || unicode.IsLetter(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isLegalOptRune(r rune) bool {
	// '=' separates inline values, so it can't name an option either.
	return r != '-' && r != '=' && r != ':' && r != ';' && r <= unicode.MaxASCII && isGraph(r)
}
