package structure

import "github.com/matzehuels/molpack/pkg/errors"

// Registry is an ordered, name-keyed collection of templates. Insertion order
// is the structure-type index and never changes.
//
// Registry is not safe for concurrent use; the packing session serialises
// access to it.
type Registry struct {
	order  []*Template
	byName map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Add appends t and returns its index. A duplicate name fails with
// DUPLICATE_STRUCTURE_NAME and leaves the registry unchanged.
func (r *Registry) Add(t *Template) (int, error) {
	if _, ok := r.byName[t.Name]; ok {
		return -1, errors.New(errors.ErrCodeDuplicateStructure, "structure name %q has been used", t.Name)
	}
	r.order = append(r.order, t)
	r.byName[t.Name] = len(r.order) - 1
	return len(r.order) - 1, nil
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (*Template, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.order[i], true
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.order) }

// All returns the templates in index order. The slice is a copy; the
// templates are not.
func (r *Registry) All() []*Template {
	out := make([]*Template, len(r.order))
	copy(out, r.order)
	return out
}

// TotalMolecules sums Copies over every template.
func (r *Registry) TotalMolecules() int {
	n := 0
	for _, t := range r.order {
		n += t.Copies
	}
	return n
}

// TotalAtoms sums TotalAtoms over every template.
func (r *Registry) TotalAtoms() int {
	n := 0
	for _, t := range r.order {
		n += t.TotalAtoms()
	}
	return n
}
