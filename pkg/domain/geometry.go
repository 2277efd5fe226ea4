package domain

import "fmt"

// Point is a position in deck coordinates, in millimetres.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
	Z float64 `json:"z" yaml:"z" mapstructure:"z"`
}

// Add returns the vector sum of p and o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Placeable is anything that can own a Location on the deck: a slot, a
// module or a piece of labware.
type Placeable interface {
	fmt.Stringer
}

// Labware is a physical container (plate, rack) that can sit on a module.
type Labware interface {
	Placeable
	// HighestZ is the absolute height of the top of the labware.
	HighestZ() float64
}

// Location pairs a point with the placeable it belongs to.
// Labware may be nil when the point is a bare deck coordinate.
type Location struct {
	Point   Point
	Labware Placeable
}

// Describe returns the human label of the owning placeable, or "None".
func (l Location) Describe() string {
	if l.Labware == nil {
		return "None"
	}
	return l.Labware.String()
}

// Slot is a named deck slot. It is the usual parent of a module.
type Slot string

func (s Slot) String() string {
	return string(s)
}

// StaticLabware is a Labware with a fixed top height. It stands in for full
// labware definitions when only collision height matters.
type StaticLabware struct {
	Name string  `json:"name" yaml:"name"`
	Top  float64 `json:"top" yaml:"top"`
}

func (l StaticLabware) String() string {
	return l.Name
}

// HighestZ implements Labware.
func (l StaticLabware) HighestZ() float64 {
	return l.Top
}
