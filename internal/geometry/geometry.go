// Package geometry holds the 2D primitives shared by the tiling construction and the board
// topology: points in pixel units, distances and directions.
package geometry

import (
	"fmt"
	"github.com/chewxy/math32"
	"math"
)

const (
	degreesToRadians = float32(math.Pi / 180)
	radiansToDegrees = float32(180 / math.Pi)
)

// Point in the 2D plane, in pixel units.
type Point struct {
	X, Y float32
}

// Pt is a shortcut to create a Point.
func Pt(x, y float32) Point {
	return Point{x, y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by f.
func (p Point) Scale(f float32) Point {
	return Point{p.X * f, p.Y * f}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float32 {
	return math32.Hypot(q.X-p.X, q.Y-p.Y)
}

// Direction returns the angle, in degrees in the range [0, 360), of the vector from p to q.
func (p Point) Direction(q Point) float32 {
	deg := math32.Atan2(q.Y-p.Y, q.X-p.X) * radiansToDegrees
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Round returns the point rounded to the nearest integer coordinates.
func (p Point) Round() IntPoint {
	return IntPoint{int32(math32.Floor(p.X + 0.5)), int32(math32.Floor(p.Y + 0.5))}
}

// String returns a text representation of Point.
func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Polar returns the point at the given distance (radius) and direction (in degrees) from center.
func Polar(center Point, radius, degrees float32) Point {
	rad := degrees * degreesToRadians
	return Point{center.X + radius*math32.Cos(rad), center.Y + radius*math32.Sin(rad)}
}

// LatticeOffset returns how many degrees the undirected line with the given direction is away from
// the closest multiple of step. Directions are taken modulo 180, since a segment has no orientation.
//
// The result is in [0, step/2]. A non-positive step matches any direction and returns 0.
func LatticeOffset(degrees, step float32) float32 {
	if step <= 0 {
		return 0
	}
	deg := math32.Mod(degrees, 180)
	if deg < 0 {
		deg += 180
	}
	offset := math32.Mod(deg, step)
	if step-offset < offset {
		return step - offset
	}
	return offset
}

// IntPoint is a point with integer coordinates, used as a comparable canonical key.
type IntPoint struct {
	X, Y int32
}

// Less orders IntPoints by X first and then Y.
func (p IntPoint) Less(q IntPoint) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// String returns a text representation of IntPoint.
func (p IntPoint) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
