package policy

import (
	"fmt"
	"regexp"
	"sort"

	"integrity/internal/platform/config"
	pkgerrors "integrity/pkg/domain-errors"
	pstrings "integrity/pkg/platform/strings"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Registry maps policy names to their declarations. It is immutable after
// construction; build it once at startup and share it freely.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry builds a registry from configuration. Duplicate or malformed
// names are construction errors so misconfiguration fails the process early.
func NewRegistry(cfgs []config.PolicyConfig) (*Registry, error) {
	policies := make(map[string]Policy, len(cfgs))
	for _, c := range cfgs {
		if !nameRe.MatchString(c.Name) {
			return nil, fmt.Errorf("invalid policy name %q", c.Name)
		}
		if _, ok := policies[c.Name]; ok {
			return nil, fmt.Errorf("duplicate policy name %q", c.Name)
		}
		policies[c.Name] = Policy{
			Name:           c.Name,
			DisplayURLs:    pstrings.DedupeAndTrim(c.DisplayURLs),
			DefaultEnabled: c.DefaultEnabled,
			Notice:         c.Notice,
		}
	}
	return &Registry{policies: policies}, nil
}

// Get returns the named policy. The error echoes the unresolved name: policy
// names are operator-facing identifiers and failing loudly beats returning
// empty data.
func (r *Registry) Get(name string) (Policy, error) {
	p, ok := r.policies[name]
	if !ok {
		return Policy{}, pkgerrors.Newf(pkgerrors.CodeUnknownPolicy,
			"statement with the provided name is not available, name: %s", name)
	}
	return p, nil
}

// Has reports whether a policy with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.policies[name]
	return ok
}

// All returns every registered policy in stable name order.
func (r *Registry) All() []Policy {
	out := make([]Policy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
