package environ

import (
	"os"
	"sort"
	"strings"
)

// Source is a read-only view of a process environment.
type Source interface {
	// Lookup returns the value for key and whether it is present.
	Lookup(key string) (string, bool)
	// Environ returns the entries in "KEY=value" form.
	Environ() []string
}

// Pair is a single environment entry.
type Pair struct {
	Key   string
	Value string
}

type osSource struct{}

// OS returns a Source backed by the current process environment.
func OS() Source { return osSource{} }

func (osSource) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (osSource) Environ() []string { return os.Environ() }

type mapSource map[string]string

// Map returns a Source over a fixed mapping. The map is copied, so later
// changes to vars are not observed.
func Map(vars map[string]string) Source {
	m := make(mapSource, len(vars))
	for k, v := range vars {
		m[k] = v
	}
	return m
}

func (m mapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Environ returns entries sorted by key.
func (m mapSource) Environ() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+m[k])
	}
	return entries
}

// Pairs splits the entries of src into key/value pairs, preserving order.
func Pairs(src Source) []Pair {
	entries := src.Environ()
	pairs := make([]Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, splitEntry(e))
	}
	return pairs
}

// splitEntry splits on the first '=' after the leading byte, so Windows
// drive entries such as "=C:=C:\\" keep their key intact.
func splitEntry(entry string) Pair {
	if len(entry) == 0 {
		return Pair{}
	}
	if idx := strings.IndexByte(entry[1:], '='); idx >= 0 {
		return Pair{Key: entry[:idx+1], Value: entry[idx+2:]}
	}
	return Pair{Key: entry}
}

// ToMap collects the pairs of src into a map. Later duplicates win.
func ToMap(src Source) map[string]string {
	pairs := Pairs(src)
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}
