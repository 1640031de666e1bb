// Package job reads packing jobs from TOML or YAML files.
//
// A job is a set of pack options plus the structures to pack:
//
//	seed = 1234
//	tolerance = 2.0
//
//	[[structure]]
//	name = "water"
//	copies = 10
//	coordinates = [[0.0, 0.0, 0.0], [0.96, 0.0, 0.0], [-0.24, 0.93, 0.0]]
//	bonds = [[0, 1], [0, 2]]
//
//	[structure.constraint]
//	kind = "inside_box"
//	params = { x_min = 0.0, y_min = 0.0, z_min = 0.0, x_max = 40.0, y_max = 40.0, z_max = 40.0 }
//
// The YAML form uses the same keys. Unknown keys are rejected in both.
package job

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/molpack/pkg/constraint"
	"github.com/matzehuels/molpack/pkg/engine"
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
	"github.com/matzehuels/molpack/pkg/pack"
	"github.com/matzehuels/molpack/pkg/structure"
)

// Format is a job file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "%s: unsupported job file extension (want .toml, .yaml or .yml)", path)
}

// Job is one decoded job file.
type Job struct {
	pack.Options `yaml:",inline"`

	Structures []Structure `toml:"structure" yaml:"structure" json:"structures"`

	// Name is the file name without extension, empty for decoded streams.
	Name string `toml:"-" yaml:"-" json:"name,omitempty"`
}

// Structure is one [[structure]] entry.
type Structure struct {
	Name              string      `toml:"name" yaml:"name" json:"name"`
	Copies            int         `toml:"copies" yaml:"copies" json:"copies"`
	Coordinates       [][]float64 `toml:"coordinates" yaml:"coordinates" json:"coordinates"`
	Bonds             [][]int     `toml:"bonds" yaml:"bonds" json:"bonds,omitempty"`
	LoopBudget        int         `toml:"loop_budget" yaml:"loop_budget" json:"loop_budget,omitempty"`
	InitialLoopBudget int         `toml:"initial_loop_budget" yaml:"initial_loop_budget" json:"initial_loop_budget,omitempty"`
	Constraint        *Constraint `toml:"constraint" yaml:"constraint" json:"constraint,omitempty"`

	// FixedOrientation is (x, y, z, a, b, g) and needs a fixed constraint.
	FixedOrientation []float64 `toml:"fixed_orientation" yaml:"fixed_orientation" json:"fixed_orientation,omitempty"`
}

// Constraint names a catalog kind and its parameters.
type Constraint struct {
	Kind   string             `toml:"kind" yaml:"kind" json:"kind"`
	Params map[string]float64 `toml:"params" yaml:"params" json:"params"`
}

// Load reads and decodes the job file at path.
func Load(path string) (*Job, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read job")
	}
	j, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	j.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return j, nil
}

// Decode reads a job in the given format.
func Decode(r io.Reader, format Format) (*Job, error) {
	var j Job
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&j)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&j); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown job format %q", format)
	}
	return &j, nil
}

// Templates converts the structure entries, building every constraint.
func (j *Job) Templates() ([]*structure.Template, error) {
	out := make([]*structure.Template, 0, len(j.Structures))
	for i, s := range j.Structures {
		t, err := s.Template()
		if err != nil {
			return nil, fmt.Errorf("structure %d (%s): %w", i, s.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Template converts one structure entry.
func (s Structure) Template() (*structure.Template, error) {
	t := &structure.Template{
		Name:              s.Name,
		Copies:            s.Copies,
		LoopBudget:        s.LoopBudget,
		InitialLoopBudget: s.InitialLoopBudget,
	}
	for i, c := range s.Coordinates {
		if len(c) != 3 {
			return nil, errors.Validation("coordinates", "atom %d has %d components, want 3", i, len(c))
		}
		t.Coordinates = append(t.Coordinates, geom.V(c[0], c[1], c[2]))
	}
	for i, b := range s.Bonds {
		if len(b) != 2 {
			return nil, errors.Validation("bonds", "bond %d has %d atoms, want 2", i, len(b))
		}
		t.Bonds = append(t.Bonds, structure.Bond{I: b[0], J: b[1]})
	}
	if s.Constraint != nil {
		c, err := constraint.Build(s.Constraint.Kind, s.Constraint.Params)
		if err != nil {
			return nil, err
		}
		t.Constraint = c
	}
	if s.FixedOrientation != nil {
		o := s.FixedOrientation
		if len(o) != 6 {
			return nil, errors.Validation("fixed_orientation", "want 6 values (x, y, z, a, b, g), got %d", len(o))
		}
		t.FixedOrientation = &structure.Orientation{
			Position: geom.V(o[0], o[1], o[2]),
			Angles:   geom.V(o[3], o[4], o[5]),
		}
	}
	return t, nil
}

// Session registers every structure in a new session packing with eng.
func (j *Job) Session(eng engine.Engine) (*pack.Session, error) {
	templates, err := j.Templates()
	if err != nil {
		return nil, err
	}
	s := pack.NewSession(eng)
	for _, t := range templates {
		if _, err := s.AddStructure(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}
