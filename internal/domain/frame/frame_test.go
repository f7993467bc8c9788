package frame

import (
	"errors"
	"testing"

	"github.com/okian/venkman/internal/domain/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func testParameters() Parameters {
	p := DefaultParameters()
	p.MinBodyAngleSpeedForTurns = 1.0
	p.MinBodyAngleSpeedDuration = 970
	p.MinHeadAngleToContinueTurning = 0.25
	p.MinHeadAngleForCasting = 2.0
	p.MinHeadAngleToContinueCasting = 1.25
	p.MinHeadAngleSpeedToContinueCasting = 1.25
	p.DotProductThresholdForStraightModes = 3.0
	return p
}

func verticalSkeleton(t int64, x float64) Skeleton {
	return Skeleton{
		CaptureTime: t,
		Head:        geometry.Pt(x, 2),
		Midpoint:    geometry.Pt(x, 1),
		Tail:        geometry.Pt(x, 0),
		Length:      2,
		Centroid:    geometry.Pt(x, 1),
		TailBearing: 90,
	}
}

func diagonalSkeleton(t int64, tail float64) Skeleton {
	return Skeleton{
		CaptureTime: t,
		Head:        geometry.Pt(tail+2, tail+2),
		Midpoint:    geometry.Pt(tail+1, tail+1),
		Tail:        geometry.Pt(tail, tail),
		Length:      2,
		Centroid:    geometry.Pt(tail+1, tail+1),
		TailBearing: -135,
	}
}

// derive runs one frame through the pipeline the way a session does.
func derive(h *History, p Parameters, s Skeleton) *Frame {
	f := New(s)
	f.Derive(h, p)
	h.Push(f)
	return f
}

func TestClassify(t *testing.T) {
	Convey("Given a previous frame 30ms earlier", t, func() {
		p := testParameters()
		prev := New(verticalSkeleton(1000, 1))

		check := func(prevMode Mode, bodySpeed, headAngle float64, headLeft bool, headSpeed, dot float64) Mode {
			prev.Mode = prevMode
			f := New(verticalSkeleton(1030, 0))
			f.SmoothedBodyAngleSpeed = bodySpeed
			f.Skeleton.HeadToBodyAngle = headAngle
			f.SmoothedHeadAngleSpeed = headSpeed
			f.SmoothedTailSpeedDotBodyAngle = dot
			f.classify(p, prev, headLeft, f.Time()-prev.Time())
			return f.Mode
		}

		Convey("Body angle speed alone does not turn a running larva", func() {
			So(check(Run, 1.5, 0, true, 0, 3.5), ShouldEqual, Run)
		})
		Convey("Casting larvae turn in the direction of the cast", func() {
			So(check(CastLeft, -1.5, 0, true, 0, 0), ShouldEqual, TurnLeft)
			So(check(CastRight, 1.5, 0, false, 0, 0), ShouldEqual, TurnRight)
		})
		Convey("Turning continues while the head stays past the threshold", func() {
			So(check(TurnRight, 1.5, 0.5, false, 0, 0), ShouldEqual, TurnRight)
		})
		Convey("A turn ends in back-up when the dot product is strongly negative", func() {
			So(check(TurnRight, 1.5, 0, false, 0, -3.5), ShouldEqual, BackUp)
		})
		Convey("A large head angle starts a cast toward the head side", func() {
			So(check(Run, 0.5, 2.5, true, 0, 0), ShouldEqual, CastLeft)
			So(check(Run, 0.5, 2.5, false, 0, 0), ShouldEqual, CastRight)
		})
		Convey("A cast continues on the lower continue threshold", func() {
			So(check(CastLeft, 0.5, 1.5, true, 1.5, 0), ShouldEqual, CastLeft)
		})
		Convey("A fading cast returns to stop", func() {
			So(check(CastLeft, 0.5, 1.0, true, 1.0, 2.5), ShouldEqual, Stop)
		})
		Convey("The previous mode sticks inside the minimum mode duration", func() {
			p.MinBehaviorModeDuration = 60
			So(check(BackUp, 0.5, 2.5, true, 0, 0), ShouldEqual, BackUp)
		})
	})
}

func TestDerive(t *testing.T) {
	Convey("Given an empty history", t, func() {
		p := testParameters()
		h := NewHistory(RetentionFor(p))

		Convey("The first frame has no speeds and stays stopped", func() {
			f := derive(h, p, verticalSkeleton(1030, 0))
			So(f.TailSpeed, ShouldEqual, 0)
			So(f.Mode, ShouldEqual, Stop)
			So(f.DerivedMaxLength, ShouldEqual, 2)
			So(f.MaxLengthDerived(), ShouldBeFalse)
		})

		Convey("Speeds are computed against the newest frame only", func() {
			h.Push(New(Skeleton{}))
			h.Push(New(verticalSkeleton(1000, 1)))
			f := New(verticalSkeleton(1030, 0))
			f.Derive(h, p)
			So(f.TailSpeed, ShouldAlmostEqual, 33.333, 0.001)
			So(f.MidpointSpeed, ShouldAlmostEqual, 33.333, 0.001)
			So(f.HeadSpeed, ShouldAlmostEqual, 33.333, 0.001)
			So(f.CentroidSpeed, ShouldAlmostEqual, 33.333, 0.001)
		})

		Convey("Jump frames are replaced until the skip limit is reached", func() {
			derive(h, p, verticalSkeleton(0, 0))
			for i := 1; i <= p.MaxJumpFramesToSkip; i++ {
				f := derive(h, p, verticalSkeleton(int64(i)*33, 999))
				So(f.JumpFramesSkipped, ShouldNotBeNil)
				So(*f.JumpFramesSkipped, ShouldEqual, i)
				So(f.SkippedSkeleton, ShouldNotBeNil)
				So(f.SkippedSkeleton.Head.X, ShouldEqual, 999)
				So(f.Skeleton.Head.X, ShouldEqual, 0)
				So(f.HeadSpeed, ShouldEqual, 0)
				So(f.TailSpeed, ShouldEqual, 0)
				So(f.CentroidSpeed, ShouldEqual, 0)
				So(f.Mode, ShouldEqual, Stop)
			}
			f := derive(h, p, verticalSkeleton(int64(p.MaxJumpFramesToSkip+1)*33, 999))
			So(f.JumpFramesSkipped, ShouldBeNil)
			So(f.SkippedSkeleton, ShouldBeNil)
			So(f.Skeleton.Head.X, ShouldEqual, 999)
		})

		Convey("Max length is derived over the derivation window", func() {
			p.MaxLengthDerivationDuration = 70
			lengths := []float64{2, 4, 3, 2, 6}
			wantMax := []float64{2, 4, 4, 4, 4}
			wantPct := []float64{-1, -1, -1, 50, 150}
			for i, l := range lengths {
				s := verticalSkeleton(int64(i)*33, 0)
				s.Length = l
				f := derive(h, p, s)
				So(f.DerivedMaxLength, ShouldEqual, wantMax[i])
				if wantPct[i] < 0 {
					So(f.PercentageOfMaxLength, ShouldBeNil)
				} else {
					So(f.PercentageOfMaxLength, ShouldNotBeNil)
					So(*f.PercentageOfMaxLength, ShouldAlmostEqual, wantPct[i], 1e-9)
				}
			}
		})
	})
}

func TestStraightModes(t *testing.T) {
	Convey("Given short smoothing windows", t, func() {
		p := testParameters()
		p.MinBodyAngleSpeedDuration = 10
		p.DotProductThresholdForStraightModes = 0.1
		h := NewHistory(RetentionFor(p))
		var now int64
		next := func(s Skeleton) *Frame {
			s.CaptureTime = now
			now += 33
			return derive(h, p, s)
		}
		run := func() {
			for i := 0; i < 5; i++ {
				f := next(diagonalSkeleton(0, float64(i)))
				if i == 0 {
					So(f.Mode, ShouldEqual, Stop)
				} else {
					So(f.Mode, ShouldEqual, Run)
				}
			}
		}
		stationary := func() *Frame { return next(h.Latest().Skeleton) }
		reverse := func(first Mode) {
			for i := 0; i < 4; i++ {
				f := next(diagonalSkeleton(0, float64(3-i)))
				if i == 0 {
					So(f.Mode, ShouldEqual, first)
				} else {
					So(f.Mode, ShouldEqual, BackUp)
				}
			}
		}

		Convey("Moving backwards is detected as back-up", func() {
			run()
			f := stationary()
			So(f.Mode, ShouldEqual, Stop)
			So(*f.TimeStopped, ShouldEqual, 0)
			reverse(BackUp)
		})

		Convey("Stop and back-up are held back by their minimum duration", func() {
			p.MinStopOrBackUpDuration = 10
			run()
			So(stationary().Mode, ShouldEqual, Run)
			f := stationary()
			So(f.Mode, ShouldEqual, Stop)
			So(f.TimeSinceLastModeChange, ShouldEqual, 23)
			reverse(Stop)
		})
	})
}

func TestSmooth(t *testing.T) {
	Convey("Given a frame with a known body angle speed", t, func() {
		h := NewHistory(10000)
		f := New(verticalSkeleton(2000, 0))
		f.BodyAngleSpeed = 10

		Convey("Smoothing fails without history", func() {
			So(f.smooth(h, 1000), ShouldBeFalse)
		})

		Convey("Smoothing fails when history is too short", func() {
			h.Push(New(verticalSkeleton(1970, 1)))
			So(f.smooth(h, 1000), ShouldBeFalse)
		})

		Convey("Frames beyond the window are ignored", func() {
			old := New(verticalSkeleton(500, 97))
			old.BodyAngleSpeed = 220
			h.Push(old)
			for i := 33; i >= 1; i-- {
				hf := New(verticalSkeleton(2000-int64(33*i), float64(i)))
				hf.BodyAngleSpeed = 10
				h.Push(hf)
			}
			So(f.smooth(h, 1000), ShouldBeTrue)
			So(f.SmoothedBodyAngleSpeed, ShouldAlmostEqual, 10, 0.001)
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given a history retaining 100ms", t, func() {
		h := NewHistory(100)

		Convey("It starts empty", func() {
			So(h.Len(), ShouldEqual, 0)
			So(h.Latest(), ShouldBeNil)
			So(h.At(-1), ShouldBeNil)
		})

		Convey("Frames older than the span are evicted", func() {
			for i := 0; i < 10; i++ {
				h.Push(New(Skeleton{CaptureTime: int64(i) * 33}))
			}
			So(h.Total(), ShouldEqual, 10)
			So(h.Len(), ShouldEqual, 4)
			So(h.Latest().Time(), ShouldEqual, 297)
			So(h.At(3).Time(), ShouldEqual, 198)
			So(h.At(4), ShouldBeNil)
		})

		Convey("At least two frames are always retained", func() {
			h.Push(New(Skeleton{CaptureTime: 0}))
			h.Push(New(Skeleton{CaptureTime: 10000}))
			h.Push(New(Skeleton{CaptureTime: 20000}))
			So(h.Len(), ShouldEqual, 2)
			So(h.At(1).Time(), ShouldEqual, 10000)
		})

		Convey("Only capture times after the newest frame are in order", func() {
			So(h.CheckOrder(0), ShouldBeNil)
			h.Push(New(Skeleton{CaptureTime: 1000}))

			So(h.CheckOrder(1001), ShouldBeNil)
			So(errors.Is(h.CheckOrder(1000), ErrOutOfOrder), ShouldBeTrue)
			err := h.CheckOrder(990)
			So(errors.Is(err, ErrOutOfOrder), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "capture time 990 is not after previous capture time 1000")
		})

		Convey("The ring grows and keeps order when every frame is in span", func() {
			wide := NewHistory(1 << 20)
			for i := 0; i < 200; i++ {
				wide.Push(New(Skeleton{CaptureTime: int64(i)}))
			}
			So(wide.Len(), ShouldEqual, 200)
			seen := 0
			wide.Each(func(i int, f *Frame) bool {
				So(f.Time(), ShouldEqual, int64(199-i))
				seen++
				return i < 9
			})
			So(seen, ShouldEqual, 10)
		})
	})

	Convey("Retention covers twice the longest window plus margin", t, func() {
		p := DefaultParameters()
		So(RetentionFor(p), ShouldEqual, 2*1000+RetentionMargin)
		So(RetentionFor(p, 15000), ShouldEqual, 30000+RetentionMargin)
	})
}

func TestParseSkeleton(t *testing.T) {
	Convey("Given skeleton wire fields", t, func() {
		fields := []string{"33", "1", "2", "3", "4", "5", "6", "7.5", "8", "9", "-10.5", "90"}

		Convey("Valid fields populate every measurement", func() {
			s, err := ParseSkeleton(fields)
			So(err, ShouldBeNil)
			So(s.CaptureTime, ShouldEqual, 33)
			So(s.Head, ShouldResemble, geometry.Pt(1, 2))
			So(s.Tail, ShouldResemble, geometry.Pt(5, 6))
			So(s.Length, ShouldEqual, 7.5)
			So(s.Centroid, ShouldResemble, geometry.Pt(8, 9))
			So(s.HeadToBodyAngle, ShouldEqual, -10.5)
			So(s.TailBearing, ShouldEqual, 90)
		})

		Convey("A bad number is rejected", func() {
			fields[4] = "x"
			_, err := ParseSkeleton(fields)
			So(errors.Is(err, ErrInvalidSkeleton), ShouldBeTrue)
		})

		Convey("Too few fields are rejected", func() {
			_, err := ParseSkeleton(fields[:5])
			So(errors.Is(err, ErrInvalidSkeleton), ShouldBeTrue)
		})
	})

	Convey("Modes parse by wire name", t, func() {
		m, err := ParseMode("cast-left")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, CastLeft)
		So(m.IsCasting(), ShouldBeTrue)
		_, err = ParseMode("crawl")
		So(errors.Is(err, ErrUnknownMode), ShouldBeTrue)
	})
}
