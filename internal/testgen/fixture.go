package testgen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/shlex"
)

const (
	ModeDefault = "default"
	ModeStop    = "stop"
)

var modes = []string{ModeDefault, ModeStop}

type caseRecord struct {
	Label   string  `json:"label"`
	ArgsStr string  `json:"args"`
	Init    *Values `json:"init,omitempty"`
}

type FixtureRecord struct {
	Label      string   `json:"label"`
	ArgsStr    string   `json:"args"`
	ModeStr    string   `json:"mode"`
	Init       *Values  `json:"init,omitempty"`
	WantArgs   []string `json:"want_args"`
	WantValues Values   `json:"want_values"`
	WantErr    string   `json:"want_err"`
}

// Args splits the record's argument string using shell quoting rules.
func (f FixtureRecord) Args() ([]string, error) {
	return shlex.Split(f.ArgsStr)
}

// Run parses the record's arguments over the reference table and returns
// the residual arguments, the resulting values and the error kind.
func (f FixtureRecord) Run() (args []string, v Values, errKind string, err error) {
	if f.Init != nil {
		v = *f.Init
	}
	p, err := NewParser(&v, f.ModeStr)
	if err != nil {
		return nil, v, "", fmt.Errorf("error building parser: %v", err)
	}
	in, err := f.Args()
	if err != nil {
		return nil, v, "", fmt.Errorf("error splitting args %q: %v", f.ArgsStr, err)
	}
	args, perr := p.Parse(in)
	if args == nil {
		args = []string{}
	}
	return args, v, ErrKind(perr), nil
}

func generateCaseFixtures(c caseRecord) ([]FixtureRecord, error) {
	var fixtures []FixtureRecord
	for _, mode := range modes {
		f := FixtureRecord{
			Label:   c.Label,
			ArgsStr: c.ArgsStr,
			ModeStr: mode,
			Init:    c.Init,
		}
		args, v, errKind, err := f.Run()
		if err != nil {
			return nil, fmt.Errorf("error generating case fixture %q: %v", c.Label, err)
		}
		f.WantArgs, f.WantValues, f.WantErr = args, v, errKind
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// ProcessCases reads a JSON array of cases from in and writes a JSON array
// of fixtures, one per case and mode, to out.
func ProcessCases(in io.Reader, out io.Writer) error {
	var fixtures []FixtureRecord

	err := decodeArray(in, func(d *json.Decoder) error {
		var c caseRecord
		if err := d.Decode(&c); err != nil {
			return err
		}
		fs, err := generateCaseFixtures(c)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, fs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error decoding cases: %v", err)
	}

	data, err := json.MarshalIndent(fixtures, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshalling fixtures: %v", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

// ReadFixtures decodes a JSON array of fixtures.
func ReadFixtures(in io.Reader) ([]FixtureRecord, error) {
	var fixtures []FixtureRecord
	err := decodeArray(in, func(d *json.Decoder) error {
		var f FixtureRecord
		if err := d.Decode(&f); err != nil {
			return err
		}
		fixtures = append(fixtures, f)
		return nil
	})
	return fixtures, err
}

func decodeArray(in io.Reader, each func(*json.Decoder) error) error {
	decoder := json.NewDecoder(in)

	// read open bracket
	if _, err := decoder.Token(); err != nil {
		return err
	}

	// while the array contains values
	for decoder.More() {
		if err := each(decoder); err != nil {
			return err
		}
	}

	// read closing bracket
	_, err := decoder.Token()
	return err
}
