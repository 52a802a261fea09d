// Package enum provides a pflag value that only accepts one of a fixed set of
// options.
package enum

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
)

const Type = "enum"

// Flag is a pflag.Value accepting one value out of its options.
// The first option is the default.
type Flag struct {
	target  *string
	options []string
}

func (f *Flag) Type() string {
	return Type
}

// New returns a Flag for the given options. The first option is the default.
// It panics if no options are given.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("options must not be empty")
	}
	value := options[0]
	return &Flag{target: &value, options: slices.Clone(options)}
}

func (f *Flag) String() string {
	return *f.target
}

func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("expected one of %q", f.options)
	}
	*f.target = value
	return nil
}

// Options returns the accepted values in declaration order.
func (f *Flag) Options() []string {
	return slices.Clone(f.options)
}

// Var defines an enum flag on f. The usage text lists the sorted options.
func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	VarP(f, name, "", options, usage)
}

// VarP is like Var but accepts a shorthand letter.
func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	flag := New(options...)
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	f.VarP(flag, name, shorthand, fmt.Sprintf("%s\n(must be one of %v)", usage, sorted))
}

// Get returns the value of the enum flag name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag accessed but not defined: %s", name)
	}
	if flag.Value.Type() != Type {
		return "", fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return flag.Value.String(), nil
}
