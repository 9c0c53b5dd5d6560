package testgen

import (
	"errors"

	"github.com/jon-codes/argparse"
)

// Values is the storage bound by Table.
type Values struct {
	Force bool    `json:"force"`
	Test  bool    `json:"test"`
	Path  string  `json:"path"`
	Int   int     `json:"int"`
	Flt   float64 `json:"flt"`
	Perms int     `json:"perms"`
}

var Usages = []string{
	"test_argparse [options] [[--] args]",
	"test_argparse [options]",
}

// Table returns the reference option table used by fixtures, bound to v.
func Table(v *Values) []argparse.Option {
	return []argparse.Option{
		argparse.Help(),
		argparse.Group("Basic options"),
		argparse.Boolean('f', "force", &v.Force, "force to do"),
		argparse.Boolean('t', "test", &v.Test, "test only").WithFlags(argparse.NoNeg),
		argparse.String('p', "path", &v.Path, "path to read"),
		argparse.Integer('i', "int", &v.Int, "selected integer"),
		argparse.Float('s', "float", &v.Flt, "selected float"),
		argparse.Group("Bits options"),
		argparse.Bit(0, "read", &v.Perms, 0, "read perm"),
		argparse.Bit(0, "write", &v.Perms, 1, "write perm"),
		argparse.Bit(0, "exec", &v.Perms, 2, "exec perm"),
		argparse.End(),
	}
}

// NewParser returns a parser over Table(v) with the given mode.
func NewParser(v *Values, mode string) (*argparse.Parser, error) {
	var flags argparse.Flag
	if mode == ModeStop {
		flags = argparse.StopAtNonOption
	}
	return argparse.New(Table(v), Usages, flags)
}

// ErrKind returns the name of the kind of a Parse error, or "" for nil.
func ErrKind(err error) string {
	if err == nil {
		return ""
	}
	var oerr *argparse.OptionError
	if errors.As(err, &oerr) {
		return string(oerr.Err)
	}
	return err.Error()
}
