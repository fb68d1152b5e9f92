package dashboard

import (
	"fmt"

	"salaryboard/internal/models"
)

// Registry is the fixed set of dashboards served by one process.
type Registry struct {
	order  []Variant
	byName map[string]Variant
}

// NewRegistry keeps the variants whose names are listed in enabled, in the
// order given. An empty list enables every variant.
func NewRegistry(variants []Variant, enabled []string) (*Registry, error) {
	all := make(map[string]Variant, len(variants))
	for _, v := range variants {
		if _, dup := all[v.Name]; dup {
			return nil, fmt.Errorf("duplicate dashboard %q", v.Name)
		}
		all[v.Name] = v
	}

	r := &Registry{byName: make(map[string]Variant)}
	if len(enabled) == 0 {
		for _, v := range variants {
			r.add(v)
		}
		return r, nil
	}
	for _, name := range enabled {
		v, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDashboard, name)
		}
		if _, seen := r.byName[name]; !seen {
			r.add(v)
		}
	}
	return r, nil
}

func (r *Registry) add(v Variant) {
	r.order = append(r.order, v)
	r.byName[v.Name] = v
}

func (r *Registry) Lookup(name string) (Variant, error) {
	v, ok := r.byName[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownDashboard, name)
	}
	return v, nil
}

func (r *Registry) List() []models.DashboardInfo {
	out := make([]models.DashboardInfo, 0, len(r.order))
	for _, v := range r.order {
		out = append(out, v.Info())
	}
	return out
}
