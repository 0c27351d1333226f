package scenario

import (
	"fmt"
	"sort"
)

// Program is a named sample that builds exactly one function.
type Program struct {
	Name    string
	Summary string
	Build   func(s *Session)
}

var registry = map[string]Program{}

func register(p Program) {
	if _, dup := registry[p.Name]; dup {
		panic(fmt.Errorf("scenario: %q registered twice", p.Name))
	}
	registry[p.Name] = p
}

// Names returns the registered scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered program sorted by name.
func All() []Program {
	names := Names()
	out := make([]Program, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}

// Lookup finds a program by name.
func Lookup(name string) (Program, bool) {
	p, ok := registry[name]
	return p, ok
}

// Select resolves names to programs, keeping their order. No names selects
// every program.
func Select(names []string) ([]Program, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Program, 0, len(names))
	for _, name := range names {
		p, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}
