package argparse_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/jon-codes/argparse"
	"github.com/jon-codes/argparse/internal/testgen"
	"pgregory.net/rapid"
)

var (
	modeGen = rapid.SampledFrom([]string{testgen.ModeDefault, testgen.ModeStop})

	// arguments that can never be read as options
	positionalGen = rapid.OneOf(
		rapid.Just(""),
		rapid.Just("-"),
		rapid.StringMatching(`[^-].*`),
	)

	longNameGen = rapid.StringMatching(`[a-z][a-z0-9]{0,7}`)
)

var parseErrs = []error{
	argparse.ErrUnknownOption,
	argparse.ErrAmbiguousOption,
	argparse.ErrMissingArgument,
	argparse.ErrInvalidNumber,
	argparse.ErrUnexpectedValue,
}

func propTarget(t *rapid.T) {
	args := rapid.SliceOf(rapid.String()).Draw(t, "args")
	mode := modeGen.Draw(t, "mode")

	var v testgen.Values
	p, err := testgen.NewParser(&v, mode)
	if err != nil {
		t.Fatalf("error building parser: %v", err)
	}
	// keep help output quiet
	p.Output = &strings.Builder{}

	rest, err := p.Parse(args)
	if err != nil && !slices.ContainsFunc(parseErrs, func(e error) bool { return errors.Is(err, e) }) && !errors.Is(err, argparse.ErrHelp) {
		t.Fatalf("unknown err returned: %v", err)
	}

	var oerr *argparse.OptionError
	if errors.As(err, &oerr) && oerr.Option == "" {
		t.Fatalf("error %v does not name an option", err)
	}

	if len(rest) > len(args) {
		t.Fatalf("got %d residual args from %d args", len(rest), len(args))
	}

	// residual args are a subsequence of the input
	i := 0
	for _, arg := range rest {
		for i < len(args) && args[i] != arg {
			i++
		}
		if i == len(args) {
			t.Fatalf("residual %q is not a subsequence of %q", rest, args)
		}
		i++
	}
}

func TestParse_Property(t *testing.T) {
	rapid.Check(t, propTarget)
}

func FuzzParse(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(propTarget))
}

func TestParse_PositionalsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		args := rapid.SliceOf(positionalGen).Draw(t, "args")
		mode := modeGen.Draw(t, "mode")

		var v testgen.Values
		p, err := testgen.NewParser(&v, mode)
		if err != nil {
			t.Fatalf("error building parser: %v", err)
		}

		rest, err := p.Parse(args)
		if err != nil {
			t.Fatalf("wanted no error, but got %q", err)
		}
		if !slices.Equal(rest, args) {
			t.Fatalf("got residual %q, but wanted %q", rest, args)
		}
		if v != (testgen.Values{}) {
			t.Fatalf("got values %+v, but wanted them untouched", v)
		}
	})
}

func TestParse_ExactMatchProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := longNameGen.Draw(t, "name")
		suffixes := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,4}`), 1, 4, rapid.ID[string]).Draw(t, "suffixes")

		var exact bool
		longer := make([]bool, len(suffixes))
		options := []argparse.Option{argparse.Boolean(0, name, &exact, "exact")}
		for i, suffix := range suffixes {
			options = append(options, argparse.Boolean(0, name+suffix, &longer[i], "longer"))
		}
		// shuffle so the exact name is not always first
		options = rapid.Permutation(options).Draw(t, "order")

		p, err := argparse.New(options, nil, 0)
		if err != nil {
			t.Fatalf("error building parser: %v", err)
		}
		if _, err := p.Parse([]string{"--" + name}); err != nil {
			t.Fatalf("wanted no error, but got %q", err)
		}
		if !exact || slices.Contains(longer, true) {
			t.Fatalf("got exact=%v longer=%v, but wanted only the exact match set", exact, longer)
		}
	})
}

func TestParse_IndependenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		first := rapid.SliceOf(rapid.String()).Draw(t, "first")
		second := rapid.SliceOf(rapid.String()).Draw(t, "second")

		var shared, fresh testgen.Values
		sharedParser, err := testgen.NewParser(&shared, testgen.ModeDefault)
		if err != nil {
			t.Fatalf("error building parser: %v", err)
		}
		freshParser, err := testgen.NewParser(&fresh, testgen.ModeDefault)
		if err != nil {
			t.Fatalf("error building parser: %v", err)
		}
		sharedParser.Output = &strings.Builder{}
		freshParser.Output = &strings.Builder{}

		sharedParser.Parse(first)
		got, gotErr := sharedParser.Parse(second)
		want, wantErr := freshParser.Parse(second)

		if !slices.Equal(got, want) {
			t.Fatalf("got residual %q after a prior parse, but %q on its own", got, want)
		}
		if (gotErr == nil) != (wantErr == nil) {
			t.Fatalf("got error %v after a prior parse, but %v on its own", gotErr, wantErr)
		}
	})
}

func TestParse_CallbackStopProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		args := rapid.SliceOf(rapid.SampledFrom([]string{"-a", "-b", "-ab", "--alpha", "-c", "x", "-cx", "--"})).Draw(t, "args")

		stopAt := -1
		calls := 0
		stopAfter := rapid.IntRange(0, len(args)).Draw(t, "stopAfter")
		cb := func(s *argparse.State, _ *argparse.Option) error {
			if s.Index() < 0 || s.Index() > len(s.Args()) {
				t.Fatalf("got cursor %d outside %d args", s.Index(), len(s.Args()))
			}
			calls++
			if calls > stopAfter {
				stopAt = s.Index()
				return argparse.ErrStop
			}
			return nil
		}

		p, err := argparse.New([]argparse.Option{
			argparse.Boolean('a', "alpha", nil, "a").WithCallback(cb),
			argparse.Boolean('b', "beta", nil, "b").WithCallback(cb),
			argparse.String('c', "", nil, "c").WithCallback(cb),
		}, nil, 0)
		if err != nil {
			t.Fatalf("error building parser: %v", err)
		}

		rest, err := p.Parse(args)
		if err != nil && !errors.Is(err, argparse.ErrMissingArgument) {
			t.Fatalf("wanted no error, but got %q", err)
		}
		if err == nil && stopAt >= 0 {
			tail := args[stopAt:]
			if len(rest) < len(tail) || !slices.Equal(rest[len(rest)-len(tail):], tail) {
				t.Fatalf("got residual %q, but wanted it to end with %q", rest, tail)
			}
		}
	})
}
