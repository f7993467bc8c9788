package geometry

import "math"

// UnitVectorForTrackerAngle converts a tracker bearing (0 degrees pointing
// towards -x, 90 degrees towards -y) into a unit vector terminal point.
func UnitVectorForTrackerAngle(degrees float64) Point {
	var translated float64
	if degrees < 0 {
		translated = 180 + degrees
	} else {
		translated = degrees - 180
	}
	rad := Radians(translated)
	return Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// DotProduct returns the dot product of vectors a (aStart->aStop) and
// b (bStart->bStop).
func DotProduct(aStart, aStop, bStart, bStop Point) float64 {
	ax := aStop.X - aStart.X
	ay := aStop.Y - aStart.Y
	bx := bStop.X - bStart.X
	by := bStop.Y - bStart.Y
	return ax*bx + ay*by
}

// AngleBetweenVectors returns the unsigned angle in radians between two vectors.
func AngleBetweenVectors(aStart, aStop, bStart, bStop Point) float64 {
	dot := DotProduct(aStart, aStop, bStart, bStop)
	return math.Acos(dot / (aStart.Distance(aStop) * bStart.Distance(bStop)))
}

// IsLeftOfVector reports whether c lies to the left of the vector
// start->stop in tracker (y down) coordinates.
func IsLeftOfVector(c, start, stop Point) bool {
	product := (stop.X-start.X)*(c.Y-start.Y) - (stop.Y-start.Y)*(c.X-start.X)
	return product < 0
}

// LinearInterpolation returns the output at x on the line through
// (prevIn, prevOut) and (nextIn, nextOut). Equal inputs yield prevOut.
func LinearInterpolation(x, prevIn, prevOut, nextIn, nextOut float64) float64 {
	if prevIn == nextIn {
		return prevOut
	}
	delta := nextIn - prevIn
	return ((nextIn-x)/delta)*prevOut + ((x-prevIn)/delta)*nextOut
}

// Rotate rotates p by angle radians around center.
func Rotate(p Point, angle float64, center Point) Point {
	dx := p.X - center.X
	dy := p.Y - center.Y
	sin, cos := math.Sincos(angle)
	return Point{
		X: center.X + cos*dx - sin*dy,
		Y: center.Y + sin*dx + cos*dy,
	}
}

// PointOnVector returns the point distance away from start along start->stop.
func PointOnVector(start, stop Point, distance float64) Point {
	ratio := distance / start.Distance(stop)
	return Point{
		X: ratio*stop.X + (1-ratio)*start.X,
		Y: ratio*stop.Y + (1-ratio)*start.Y,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
