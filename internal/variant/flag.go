package variant

import (
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*Flag)(nil)

// Flag is a pflag.Value restricted to the names of a Table.
// Invalid names are rejected while flags are parsed.
type Flag struct {
	table Table
	value string
}

// NewFlag creates a Flag accepting the names of t.
func NewFlag(t Table) *Flag {
	return &Flag{table: t}
}

// String implements pflag.Value.
func (f *Flag) String() string {
	return f.value
}

// Set implements pflag.Value.
func (f *Flag) Set(s string) error {
	if _, err := f.table.Lookup(s); err != nil {
		return err
	}
	f.value = s
	return nil
}

// Type implements pflag.Value.
func (f *Flag) Type() string {
	return strings.Join(f.table.Names(), "|")
}

// Variant returns the selected variant. ok is false until Set succeeds.
func (f *Flag) Variant() (v Variant, ok bool) {
	v, ok = f.table[f.value]
	return v, ok
}
