// Package scenarios holds the end-to-end scenarios run against the desktop
// application.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/arelle/uiprobe/e2e/harness"
)

// All returns every scenario in the order they are run by default.
func All() []harness.Scenario {
	return []harness.Scenario{
		Open(),
		LoadDocument(),
	}
}

// Names returns the sorted scenario names.
func Names() []string {
	var names []string
	for _, s := range All() {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named scenarios in the order given, or all of them when
// names is empty.
func Select(names []string) ([]harness.Scenario, error) {
	if len(names) == 0 {
		return All(), nil
	}
	byName := map[string]harness.Scenario{}
	for _, s := range All() {
		byName[s.Name] = s
	}
	out := make([]harness.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
		}
		out = append(out, s)
	}
	return out, nil
}
