package checks

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type entry struct {
	desc Descriptor
	ctor Constructor
}

var (
	registry = make(map[string]entry)
	mu       sync.RWMutex
)

// Register adds a check to the catalog. It is meant to be called from init
// functions and panics on an empty or duplicate code.
func Register(d Descriptor, ctor Constructor) {
	if d.Code == "" {
		panic("check registered without a code")
	}
	if ctor == nil {
		panic(fmt.Sprintf("check %s registered without a constructor", d.Code))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[d.Code]; exists {
		panic(fmt.Sprintf("check %s already registered", d.Code))
	}
	registry[d.Code] = entry{desc: d, ctor: ctor}
}

// List returns every registered descriptor ordered by code.
func List() []Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.desc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}

func Lookup(code string) (Descriptor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	return e.desc, ok
}

// Resolve selects the descriptors to run. Free checks are always eligible;
// premium checks only when premium is true. An empty selector picks every
// eligible check, otherwise selector is a comma-separated list of codes.
// The result is ordered by code and free of duplicates.
func Resolve(selector string, premium bool) ([]Descriptor, error) {
	mu.RLock()
	defer mu.RUnlock()

	eligible := func(d Descriptor) bool {
		return d.Tier != TierPremium || premium
	}

	if strings.TrimSpace(selector) == "" {
		var out []Descriptor
		for _, d := range listLocked() {
			if eligible(d) {
				out = append(out, d)
			}
		}
		return out, nil
	}

	seen := make(map[string]bool)
	var out []Descriptor
	for _, raw := range strings.Split(selector, ",") {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" || seen[code] {
			continue
		}
		e, ok := registry[code]
		if !ok {
			return nil, fmt.Errorf("check not found: %s", code)
		}
		if !eligible(e.desc) {
			return nil, fmt.Errorf("check %s requires the premium tier", code)
		}
		seen[code] = true
		out = append(out, e.desc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Build instantiates the checks for descs, in order.
func Build(descs []Descriptor, deps Deps) ([]Check, error) {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Check, 0, len(descs))
	for _, d := range descs {
		e, ok := registry[d.Code]
		if !ok {
			return nil, fmt.Errorf("check not found: %s", d.Code)
		}
		out = append(out, e.ctor(deps))
	}
	return out, nil
}
