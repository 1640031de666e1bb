package structure

import (
	"testing"

	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
)

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry()
	names := []string{"water", "urea", "ion"}
	for i, n := range names {
		idx, err := r.Add(&Template{Name: n, Coordinates: []geom.Vec{{}}, Copies: i + 1})
		if err != nil {
			t.Fatalf("Add(%s): %v", n, err)
		}
		if idx != i {
			t.Errorf("Add(%s) index = %d, want %d", n, idx, i)
		}
	}

	for i, tpl := range r.All() {
		if tpl.Name != names[i] {
			t.Errorf("All()[%d] = %s, want %s", i, tpl.Name, names[i])
		}
	}
	if got, ok := r.Get("urea"); !ok || got.Copies != 2 {
		t.Errorf("Get(urea) = %v %v", got, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}
	if r.TotalMolecules() != 6 || r.TotalAtoms() != 6 {
		t.Errorf("totals = %d molecules, %d atoms", r.TotalMolecules(), r.TotalAtoms())
	}
}

func TestRegistryDuplicateLeavesStateUnchanged(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add(&Template{Name: "water", Coordinates: []geom.Vec{{}}, Copies: 1}); err != nil {
		t.Fatal(err)
	}

	_, err := r.Add(&Template{Name: "water", Coordinates: []geom.Vec{{}, {X: 1}}, Copies: 5})
	if !errors.Is(err, errors.ErrCodeDuplicateStructure) {
		t.Fatalf("err = %v, want DUPLICATE_STRUCTURE_NAME", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d after rejected duplicate", r.Len())
	}
	if got, _ := r.Get("water"); got.Copies != 1 {
		t.Error("duplicate overwrote the original entry")
	}
}
