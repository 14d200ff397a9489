package track

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// ControlPointSet is the on-disk form of a control polygon.
type ControlPointSet struct {
	Name   string      `yaml:"name"`
	Points [][]float32 `yaml:"points,flow"`
	Ups    [][]float32 `yaml:"ups,omitempty,flow"`
}

// DefaultControlPoints returns the reference loop: eight points at radius 100
// around the origin, at height 5.
func DefaultControlPoints() []math.Vec3 {
	return []math.Vec3{
		{X: 100, Y: 5, Z: 0},
		{X: 71, Y: 5, Z: 71},
		{X: 0, Y: 5, Z: 100},
		{X: -71, Y: 5, Z: 71},
		{X: -100, Y: 5, Z: 0},
		{X: -71, Y: 5, Z: -71},
		{X: 0, Y: 5, Z: -100},
		{X: 71, Y: 5, Z: -71},
	}
}

// NewControlPointSet converts points (and optional ups) to their file form.
func NewControlPointSet(name string, points, ups []math.Vec3) *ControlPointSet {
	set := &ControlPointSet{Name: name, Points: toRows(points)}
	if len(ups) > 0 {
		set.Ups = toRows(ups)
	}
	return set
}

// Vectors converts the set to positions and up vectors. Ups is nil when the
// file has none.
func (s *ControlPointSet) Vectors() (points, ups []math.Vec3, err error) {
	points, err = fromRows(s.Points)
	if err != nil {
		return nil, nil, fmt.Errorf("points: %w", err)
	}
	if len(s.Ups) > 0 {
		ups, err = fromRows(s.Ups)
		if err != nil {
			return nil, nil, fmt.Errorf("ups: %w", err)
		}
	}
	return points, ups, nil
}

// LoadControlPoints reads a control-point set from a YAML file.
func LoadControlPoints(path string) (*ControlPointSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set ControlPointSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(set.Points) < MinControlPoints {
		return nil, fmt.Errorf("%s: %w: got %d", path, ErrTooFewControlPoints, len(set.Points))
	}
	return &set, nil
}

// SaveControlPoints writes a control-point set as YAML, creating parent directories.
func SaveControlPoints(path string, set *ControlPointSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func toRows(vs []math.Vec3) [][]float32 {
	rows := make([][]float32, len(vs))
	for i, v := range vs {
		rows[i] = []float32{v.X, v.Y, v.Z}
	}
	return rows
}

func fromRows(rows [][]float32) ([]math.Vec3, error) {
	vs := make([]math.Vec3, len(rows))
	for i, r := range rows {
		if len(r) != 3 {
			return nil, fmt.Errorf("entry %d has %d components, want 3", i, len(r))
		}
		vs[i] = math.Vec3{X: r[0], Y: r[1], Z: r[2]}
	}
	return vs, nil
}
