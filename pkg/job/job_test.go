package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molpack/pkg/engine"
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
)

const tomlJob = `
seed = 99
tolerance = 2.0
short_tol_dist = 0.5
packall = true

[[structure]]
name = "water"
copies = 4
coordinates = [[0.0, 0.0, 0.0], [0.96, 0.0, 0.0], [-0.24, 0.93, 0.0]]
bonds = [[0, 1], [0, 2]]
loop_budget = 50

[structure.constraint]
kind = "inside_box"
params = { x_min = 0.0, y_min = 0.0, z_min = 0.0, x_max = 20.0, y_max = 20.0, z_max = 20.0 }

[[structure]]
name = "anchor"
copies = 1
coordinates = [[0.0, 0.0, 0.0]]
fixed_orientation = [10.0, 10.0, 10.0, 0.0, 0.0, 0.0]

[structure.constraint]
kind = "fixed"
params = { x = 0.0, y = 0.0, z = 0.0, a = 0.0, b = 0.0, g = 0.0 }
`

const yamlJob = `
seed: 99
tolerance: 2.0
short_tol_dist: 0.5
packall: true
structure:
  - name: water
    copies: 4
    coordinates: [[0.0, 0.0, 0.0], [0.96, 0.0, 0.0], [-0.24, 0.93, 0.0]]
    bonds: [[0, 1], [0, 2]]
    loop_budget: 50
    constraint:
      kind: inside_box
      params: {x_min: 0.0, y_min: 0.0, z_min: 0.0, x_max: 20.0, y_max: 20.0, z_max: 20.0}
  - name: anchor
    copies: 1
    coordinates: [[0.0, 0.0, 0.0]]
    fixed_orientation: [10.0, 10.0, 10.0, 0.0, 0.0, 0.0]
    constraint:
      kind: fixed
      params: {x: 0.0, y: 0.0, z: 0.0, a: 0.0, b: 0.0, g: 0.0}
`

func TestDecodeTOMLAndYAMLAgree(t *testing.T) {
	fromTOML, err := Decode(strings.NewReader(tomlJob), FormatTOML)
	require.NoError(t, err)
	fromYAML, err := Decode(strings.NewReader(yamlJob), FormatYAML)
	require.NoError(t, err)

	require.Equal(t, fromTOML.Options, fromYAML.Options)
	require.Equal(t, fromTOML.Structures, fromYAML.Structures)

	require.Equal(t, int64(99), fromTOML.Seed)
	require.Equal(t, 2.0, fromTOML.Tolerance)
	require.Equal(t, 0.5, *fromTOML.ShortTolDistance)
	require.Nil(t, fromTOML.ShortTolScale)
	require.True(t, fromTOML.PackAll)
}

func TestTemplates(t *testing.T) {
	j, err := Decode(strings.NewReader(tomlJob), FormatTOML)
	require.NoError(t, err)

	templates, err := j.Templates()
	require.NoError(t, err)
	require.Len(t, templates, 2)

	w := templates[0]
	require.Equal(t, "water", w.Name)
	require.Equal(t, 3, w.AtomCount())
	require.Equal(t, geom.V(0.96, 0, 0), w.Coordinates[1])
	require.Len(t, w.Bonds, 2)
	require.Equal(t, 50, w.LoopBudget)
	require.Equal(t, "inside_box 0 0 0 20 20 20", w.Constraint.String())

	a := templates[1]
	pos, ok := a.Placement()
	require.True(t, ok)
	require.Equal(t, [6]float64{10, 10, 10, 0, 0, 0}, pos)
}

func TestSessionPacks(t *testing.T) {
	j, err := Decode(strings.NewReader(yamlJob), FormatYAML)
	require.NoError(t, err)

	s, err := j.Session(engine.NewLocal(nil))
	require.NoError(t, err)
	require.Equal(t, 2, s.StructureCount())
	require.Equal(t, 5, s.TotalMolecules())

	r, err := s.Pack(context.Background(), j.Options)
	require.NoError(t, err)
	require.True(t, r.Success())
	anchor, _ := r.Get("anchor")
	require.Equal(t, []geom.Vec{geom.V(10, 10, 10)}, anchor.Coordinates)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("tolerence = 2.0\n"), FormatTOML)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = Decode(strings.NewReader("tolerence: 2.0\n"), FormatYAML)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		s    Structure
		code errors.Code
	}{
		{"short coordinate", Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{1, 2}}}, errors.ErrCodeValidation},
		{"bad bond", Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{0, 0, 0}}, Bonds: [][]int{{0}}}, errors.ErrCodeValidation},
		{"unknown kind", Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{0, 0, 0}}, Constraint: &Constraint{Kind: "inside_torus"}}, errors.ErrCodeUnknownConstraintKind},
		{"missing params", Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{0, 0, 0}}, Constraint: &Constraint{Kind: "over_plane", Params: map[string]float64{"a": 1}}}, errors.ErrCodeInvalidConstraintParam},
		{"short orientation", Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{0, 0, 0}}, FixedOrientation: []float64{1, 2, 3}}, errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &Job{Structures: []Structure{tt.s}}
			_, err := j.Templates()
			require.Error(t, err)
			require.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestSessionRejectsDuplicates(t *testing.T) {
	s := Structure{Name: "a", Copies: 1, Coordinates: [][]float64{{0, 0, 0}}}
	j := &Job{Structures: []Structure{s, s}}
	_, err := j.Session(nil)
	require.True(t, errors.Is(err, errors.ErrCodeDuplicateStructure))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlJob), 0o644))

	j, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "water", j.Name)
	require.Len(t, j.Structures, 2)

	_, err = Load(filepath.Join(dir, "water.json"))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": FormatTOML, "b.YAML": FormatYAML, "c.yml": FormatYAML} {
		got, err := FormatFor(path)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
