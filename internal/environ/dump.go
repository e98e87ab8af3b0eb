package environ

import (
	"bufio"
	"fmt"
	"io"
)

const (
	// DefaultKey is the variable reported on its own after the full dump.
	DefaultKey = "TEST"
	// DefaultAbsent is the conventional marker for an unset variable.
	DefaultAbsent = "<nil>"
)

// DumpOptions controls what Dump reports. Absent is printed verbatim, so an
// empty Absent yields an empty line.
type DumpOptions struct {
	Key    string
	Absent string
}

func (o DumpOptions) key() string {
	if o.Key == "" {
		return DefaultKey
	}
	return o.Key
}

// Dump writes a diagnostic listing of src to w: the whole mapping on one
// line, then one "KEY VALUE" line per entry, then the Report line.
// src is only read.
func Dump(w io.Writer, src Source, opts DumpOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "environ(%v)\n", ToMap(src))
	for _, p := range Pairs(src) {
		fmt.Fprintf(bw, "%s %s\n", p.Key, p.Value)
	}
	fmt.Fprintln(bw, Value(src, opts.key(), opts.Absent))

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing environment dump: %w", err)
	}
	return nil
}

// Report writes only the value of opts.Key, or opts.Absent when unset.
func Report(w io.Writer, src Source, opts DumpOptions) error {
	if _, err := fmt.Fprintln(w, Value(src, opts.key(), opts.Absent)); err != nil {
		return fmt.Errorf("writing environment report: %w", err)
	}
	return nil
}

// Value returns the value of key in src, or absent if it is not set.
func Value(src Source, key, absent string) string {
	if v, ok := src.Lookup(key); ok {
		return v
	}
	return absent
}
