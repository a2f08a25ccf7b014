package severity

import "sort"

// Finding is the part of a check result the resolver needs.
type Finding interface {
	Code() string
	DefaultSeverity() Level
}

// Overrides maps a check code to the severity that replaces its default.
type Overrides map[string]Effective

// Resolver maps findings to their effective severity.
// The override table is copied at construction and never mutated, so a
// Resolver is safe for concurrent use.
type Resolver struct {
	overrides Overrides
}

func NewResolver(overrides Overrides) *Resolver {
	copied := make(Overrides, len(overrides))
	for code, eff := range overrides {
		copied[code] = eff
	}
	return &Resolver{overrides: copied}
}

// Resolve returns the override for the finding's code, or the finding's
// default severity when no override exists.
func (r *Resolver) Resolve(f Finding) Effective {
	if r != nil {
		if eff, ok := r.overrides[f.Code()]; ok {
			return eff
		}
	}
	return f.DefaultSeverity().Effective()
}

// UnknownCodes returns the override codes that are not in known, sorted.
// Such entries are never matched by Resolve.
func (r *Resolver) UnknownCodes(known func(code string) bool) []string {
	if r == nil {
		return nil
	}
	var out []string
	for code := range r.overrides {
		if !known(code) {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
