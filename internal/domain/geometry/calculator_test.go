package geometry

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestUnitVectorForTrackerAngle(t *testing.T) {
	Convey("Given tracker bearings", t, func() {
		Convey("Zero degrees points towards negative x", func() {
			p := UnitVectorForTrackerAngle(0)
			So(p.X, ShouldAlmostEqual, -1, 1e-9)
			So(p.Y, ShouldAlmostEqual, 0, 1e-9)
		})
		Convey("Ninety degrees points towards negative y", func() {
			p := UnitVectorForTrackerAngle(90)
			So(p.X, ShouldAlmostEqual, 0, 1e-9)
			So(p.Y, ShouldAlmostEqual, -1, 1e-9)
		})
		Convey("Minus ninety degrees points towards positive y", func() {
			p := UnitVectorForTrackerAngle(-90)
			So(p.X, ShouldAlmostEqual, 0, 1e-9)
			So(p.Y, ShouldAlmostEqual, 1, 1e-9)
		})
	})
}

func TestVectors(t *testing.T) {
	Convey("Given simple vectors", t, func() {
		Convey("The dot product of perpendicular vectors is zero", func() {
			So(DotProduct(Origin, Pt(1, 0), Origin, Pt(0, 1)), ShouldEqual, 0)
		})
		Convey("The angle between perpendicular vectors is pi/2", func() {
			So(AngleBetweenVectors(Origin, Pt(2, 0), Pt(1, 1), Pt(1, 5)), ShouldAlmostEqual, math.Pi/2, 1e-9)
		})
		Convey("Collinear points are not left of the vector", func() {
			So(IsLeftOfVector(Pt(4, 5), Pt(8, 9), Pt(6, 7)), ShouldBeFalse)
		})
		Convey("A point above a left-to-right vector is left of it in tracker coordinates", func() {
			So(IsLeftOfVector(Pt(5, -1), Pt(0, 0), Pt(10, 0)), ShouldBeTrue)
			So(IsLeftOfVector(Pt(5, 1), Pt(0, 0), Pt(10, 0)), ShouldBeFalse)
		})
	})
}

func TestInterpolationAndTransforms(t *testing.T) {
	Convey("Given interpolation inputs", t, func() {
		So(LinearInterpolation(1.5, 1, 10, 2, 20), ShouldAlmostEqual, 15, 1e-9)
		So(LinearInterpolation(3, 3, 7, 3, 9), ShouldEqual, 7)
	})

	Convey("Given a point rotated a quarter turn about a center", t, func() {
		p := Rotate(Pt(2, 1), math.Pi/2, Pt(1, 1))
		So(p.X, ShouldAlmostEqual, 1, 1e-9)
		So(p.Y, ShouldAlmostEqual, 2, 1e-9)
	})

	Convey("Given a vector of length 10", t, func() {
		p := PointOnVector(Pt(0, 0), Pt(10, 0), 4)
		So(p.X, ShouldAlmostEqual, 4, 1e-9)
		So(p.Y, ShouldAlmostEqual, 0, 1e-9)
	})
}
