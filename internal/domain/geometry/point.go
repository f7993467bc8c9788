// Package geometry holds the tracker coordinate helpers shared by frame
// derivation and the stimulus rules.
package geometry

import (
	"fmt"
	"math"
)

// Origin is the tracker coordinate origin.
var Origin = Point{}

// Point is an immutable tracker coordinate.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Distance returns the euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("[%v,%v]", p.X, p.Y)
}
