package trackersim

import (
	"math"
	"math/rand"
	"strconv"
)

// Larva produces the skeletons of a synthetic larva that crawls forward,
// pauses now and then and casts its head before changing heading.
type Larva struct {
	rng      *rand.Rand
	x, y     float64
	heading  float64 // degrees, 0 along +x
	interval int64   // milliseconds
	frame    int
	time     int64
}

// NewLarva starts a larva at (x, y) whose frames are intervalMs apart,
// at least one millisecond.
func NewLarva(seed int64, x, y float64, intervalMs int64) *Larva {
	if intervalMs < 1 {
		intervalMs = 1
	}
	rng := rand.New(rand.NewSource(seed))
	return &Larva{
		rng:      rng,
		x:        x,
		y:        y,
		heading:  rng.Float64() * 360,
		interval: intervalMs,
	}
}

// Skeleton is one frame of tracker measurements in wire order.
type Skeleton struct {
	CaptureTime     int64
	HeadX, HeadY    float64
	MidX, MidY      float64
	TailX, TailY    float64
	Length          float64
	CentroidX       float64
	CentroidY       float64
	HeadToBodyAngle float64
	TailBearing     float64
}

// Fields renders s as the 12 skeleton fields after the session id.
func (s Skeleton) Fields() []string {
	out := []string{strconv.FormatInt(s.CaptureTime, 10)}
	for _, v := range []float64{
		s.HeadX, s.HeadY, s.MidX, s.MidY, s.TailX, s.TailY,
		s.Length, s.CentroidX, s.CentroidY, s.HeadToBodyAngle, s.TailBearing,
	} {
		out = append(out, strconv.FormatFloat(v, 'f', 3, 64))
	}
	return out
}

// Next advances the larva by one frame.
func (l *Larva) Next() Skeleton {
	l.frame++
	l.time += l.interval

	var headAngle float64
	switch {
	case l.frame%pauseEvery < pauseFrames:
		// paused
	case l.frame%castEvery < castFrames:
		phase := float64(l.frame%castEvery) / castFrames
		headAngle = castSweepDeg * math.Sin(2*math.Pi*phase)
		if l.frame%castEvery == castFrames-1 {
			l.heading += (l.rng.Float64() - 0.5) * 90
		}
	default:
		step := crawlSpeed * float64(l.interval) / 1000
		rad := l.heading * math.Pi / 180
		l.x += step * math.Cos(rad)
		l.y += step * math.Sin(rad)
		l.heading += (l.rng.Float64() - 0.5) * 4
	}

	rad := l.heading * math.Pi / 180
	half := bodyLength / 2
	dx, dy := math.Cos(rad), math.Sin(rad)
	midX, midY := l.x, l.y
	tailX, tailY := midX-half*dx, midY-half*dy
	headRad := (l.heading + headAngle) * math.Pi / 180
	headX, headY := midX+half*math.Cos(headRad), midY+half*math.Sin(headRad)

	// The tracker's bearing of 0 points to -x.
	bearing := math.Mod(l.heading+180, 360)

	return Skeleton{
		CaptureTime:     l.time,
		HeadX:           headX,
		HeadY:           headY,
		MidX:            midX,
		MidY:            midY,
		TailX:           tailX,
		TailY:           tailY,
		Length:          bodyLength + l.rng.NormFloat64()*0.3,
		CentroidX:       (headX + midX + tailX) / 3,
		CentroidY:       (headY + midY + tailY) / 3,
		HeadToBodyAngle: headAngle,
		TailBearing:     bearing,
	}
}
