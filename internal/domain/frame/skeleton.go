package frame

import (
	"fmt"
	"strconv"

	"github.com/okian/venkman/internal/domain/geometry"
)

// SkeletonFieldCount is the number of wire fields a skeleton is built from
// (capture time followed by the eleven measurements).
const SkeletonFieldCount = 12

// Skeleton is one tracker observation.
type Skeleton struct {
	CaptureTime     int64          `yaml:"capture_time" json:"captureTime"`
	Head            geometry.Point `yaml:"head" json:"head"`
	Midpoint        geometry.Point `yaml:"midpoint" json:"midpoint"`
	Tail            geometry.Point `yaml:"tail" json:"tail"`
	Length          float64        `yaml:"length" json:"length"`
	Centroid        geometry.Point `yaml:"centroid" json:"centroid"`
	HeadToBodyAngle float64        `yaml:"head_to_body_angle" json:"headToBodyAngle"`
	TailBearing     float64        `yaml:"tail_bearing" json:"tailBearing"`
}

// ParseSkeleton builds a skeleton from capture time, head x/y, midpoint
// x/y, tail x/y, length, centroid x/y, head-to-body angle and tail bearing.
func ParseSkeleton(fields []string) (Skeleton, error) {
	if len(fields) < SkeletonFieldCount {
		return Skeleton{}, fmt.Errorf("%w: expected %d fields but received %d", ErrInvalidSkeleton, SkeletonFieldCount, len(fields))
	}
	captureTime, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Skeleton{}, fmt.Errorf("%w: capture time '%s' is not an integer", ErrInvalidSkeleton, fields[0])
	}
	var v [SkeletonFieldCount - 1]float64
	for i := range v {
		raw := fields[i+1]
		v[i], err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return Skeleton{}, fmt.Errorf("%w: field %d value '%s' is not a number", ErrInvalidSkeleton, i+2, raw)
		}
	}
	return Skeleton{
		CaptureTime:     captureTime,
		Head:            geometry.Pt(v[0], v[1]),
		Midpoint:        geometry.Pt(v[2], v[3]),
		Tail:            geometry.Pt(v[4], v[5]),
		Length:          v[6],
		Centroid:        geometry.Pt(v[7], v[8]),
		HeadToBodyAngle: v[9],
		TailBearing:     v[10],
	}, nil
}

// withMeasurementsOf keeps s's capture time but takes every measurement from o.
func (s Skeleton) withMeasurementsOf(o Skeleton) Skeleton {
	o.CaptureTime = s.CaptureTime
	return o
}
