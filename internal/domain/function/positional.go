package function

import (
	"fmt"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/geometry"
	"gopkg.in/yaml.v3"
)

// Default tracker arena size in tracker units.
const (
	DefaultArenaWidth  = 400
	DefaultArenaHeight = 400
)

const practicallyZero = 0.00000001

// PositionalVariable names the skeleton landmark a 2-D function samples.
type PositionalVariable string

// Skeleton landmarks.
const (
	Head     PositionalVariable = "head"
	Midpoint PositionalVariable = "midpoint"
	Tail     PositionalVariable = "tail"
	Centroid PositionalVariable = "centroid"
)

// Point returns the landmark position in f.
func (v PositionalVariable) Point(f *frame.Frame) geometry.Point {
	s := f.Skeleton
	switch v {
	case Midpoint:
		return s.Midpoint
	case Tail:
		return s.Tail
	case Centroid:
		return s.Centroid
	default:
		return s.Head
	}
}

// UnmarshalYAML rejects unknown landmarks.
func (v *PositionalVariable) UnmarshalYAML(node *yaml.Node) error {
	switch p := PositionalVariable(node.Value); p {
	case Head, Midpoint, Tail, Centroid:
		*v = p
		return nil
	}
	return fmt.Errorf("%w: unknown positional variable '%s'", ErrInvalidFunction, node.Value)
}

// Positional maps an arena position onto a grid of values (rows along y,
// columns along x) and interpolates bilinearly.
type Positional struct {
	variable   PositionalVariable
	maxX, maxY float64
	policy     OutOfRangePolicy
	values     [][]float64
	rows, cols int
	factorX    float64
	factorY    float64
}

// NewPositional builds a grid function over [0, maxX] x [0, maxY].
func NewPositional(variable PositionalVariable, maxX, maxY float64, policy OutOfRangePolicy, values [][]float64) (*Positional, error) {
	if variable == "" {
		return nil, fmt.Errorf("%w: variable not defined for function", ErrInvalidFunction)
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("%w: values not defined for function", ErrInvalidFunction)
	}
	cols := len(values[0])
	grid := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values but row 0 has %d", ErrInvalidFunction, i, len(row), cols)
		}
		grid[i] = append([]float64(nil), row...)
	}
	if maxX <= practicallyZero {
		return nil, fmt.Errorf("%w: maximum x (%v) must be greater than zero", ErrInvalidFunction, maxX)
	}
	if maxY <= practicallyZero {
		return nil, fmt.Errorf("%w: maximum y (%v) must be greater than zero", ErrInvalidFunction, maxY)
	}
	return &Positional{
		variable: variable,
		maxX:     maxX,
		maxY:     maxY,
		policy:   policyOrDefault(policy),
		values:   grid,
		rows:     len(grid),
		cols:     cols,
		factorX:  float64(cols-1) / maxX,
		factorY:  float64(len(grid)-1) / maxY,
	}, nil
}

// DefaultPositional is a zero grid sampling the head over the default arena.
func DefaultPositional() *Positional {
	f, _ := NewPositional(Head, DefaultArenaWidth, DefaultArenaHeight, EndSessionForMinimumAndMaximum, [][]float64{{0}})
	return f
}

func (f *Positional) Variable() PositionalVariable { return f.variable }
func (f *Positional) MaxX() float64 { return f.maxX }
func (f *Positional) MaxY() float64 { return f.maxY }

// Value samples the function at the frame's landmark.
func (f *Positional) Value(fr *frame.Frame) (float64, error) {
	return f.interpolate(f.variable.Point(fr), f.factorX, f.factorY)
}

// ValueAt samples the function at p.
func (f *Positional) ValueAt(p geometry.Point) (float64, error) {
	return f.interpolate(p, f.factorX, f.factorY)
}

// interpolate checks and clamps y before x.
func (f *Positional) interpolate(p geometry.Point, factorX, factorY float64) (float64, error) {
	actualY := p.Y
	switch {
	case actualY < 0 && f.policy.RepeatMinimum():
		actualY = 0
	case actualY > f.maxY && f.policy.RepeatMaximum():
		actualY = f.maxY
	}
	y := factorY * actualY
	prevY := int(y)
	nextY := prevY + 1
	if prevY < 0 || prevY >= f.rows {
		return 0, fmt.Errorf("%w: row index %d for %s y coordinate %v is out of function range (0 to %d)",
			ErrOutOfRange, prevY, f.variable, p.Y, f.rows-1)
	}
	if nextY == f.rows {
		nextY = prevY
	}

	actualX := p.X
	switch {
	case actualX < 0 && f.policy.RepeatMinimum():
		actualX = 0
	case actualX > f.maxX && f.policy.RepeatMaximum():
		actualX = f.maxX
	}
	x := factorX * actualX
	prevX := int(x)
	nextX := prevX + 1
	if prevX < 0 || prevX >= f.cols {
		return 0, fmt.Errorf("%w: column index %d for %s x coordinate %v is out of function range (0 to %d)",
			ErrOutOfRange, prevX, f.variable, p.X, f.cols-1)
	}
	if nextX == f.cols {
		nextX = prevX
	}

	lower := geometry.LinearInterpolation(x,
		float64(prevX), f.values[prevY][prevX],
		float64(nextX), f.values[prevY][nextX])
	upper := geometry.LinearInterpolation(x,
		float64(prevX), f.values[nextY][prevX],
		float64(nextX), f.values[nextY][nextX])
	return geometry.LinearInterpolation(y, float64(prevY), lower, float64(nextY), upper), nil
}

// Arena resamples the grid onto a width x height raster, indexed [y][x].
// A one pixel wide (or high) raster samples the first column (or row).
func (f *Positional) Arena(width, height int) ([][]float64, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: arena width (%d) must be greater than zero", ErrInvalidFunction, width)
	}
	if height < 1 {
		return nil, fmt.Errorf("%w: arena height (%d) must be greater than zero", ErrInvalidFunction, height)
	}
	factorX, factorY := 0.0, 0.0
	if width > 1 {
		factorX = float64(f.cols-1) / float64(width-1)
	}
	if height > 1 {
		factorY = float64(f.rows-1) / float64(height-1)
	}
	arena := make([][]float64, height)
	for y := 0; y < height; y++ {
		arena[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			v, err := f.interpolate(geometry.Pt(float64(x), float64(y)), factorX, factorY)
			if err != nil {
				return nil, err
			}
			arena[y][x] = v
		}
	}
	return arena, nil
}

type positionalDoc struct {
	Variable PositionalVariable `yaml:"variable"`
	MaxX     *float64           `yaml:"max_x,omitempty"`
	MaxY     *float64           `yaml:"max_y,omitempty"`
	Policy   OutOfRangePolicy   `yaml:"policy,omitempty"`
	Values   [][]float64        `yaml:"values"`
}

// MarshalYAML writes the landmark, bounds, policy and grid.
func (f *Positional) MarshalYAML() (interface{}, error) {
	maxX, maxY := f.maxX, f.maxY
	return positionalDoc{Variable: f.variable, MaxX: &maxX, MaxY: &maxY, Policy: f.policy, Values: f.values}, nil
}

// UnmarshalYAML validates through NewPositional. Missing bounds default to
// the grid's last column and row index.
func (f *Positional) UnmarshalYAML(node *yaml.Node) error {
	d := positionalDoc{Variable: Head}
	if err := node.Decode(&d); err != nil {
		return err
	}
	var maxX, maxY float64
	if len(d.Values) > 0 {
		maxX = float64(len(d.Values[0]) - 1)
		maxY = float64(len(d.Values) - 1)
	}
	if d.MaxX != nil {
		maxX = *d.MaxX
	}
	if d.MaxY != nil {
		maxY = *d.MaxY
	}
	built, err := NewPositional(d.Variable, maxX, maxY, d.Policy, d.Values)
	if err != nil {
		return err
	}
	*f = *built
	return nil
}
