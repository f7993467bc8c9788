package frame

import "math"

// classify sets f.Mode from the smoothed kinematics, the previous frame and
// the elapsed time since it.
func (f *Frame) classify(p Parameters, prev *Frame, headLeft bool, elapsed int64) {
	prevMode := prev.Mode
	headAngle := f.HeadAngle()
	var mode Mode

	f.TimeSinceLastModeChange = prev.TimeSinceLastModeChange + elapsed

	switch {
	case f.TimeSinceLastModeChange < p.MinBehaviorModeDuration:
		mode = prevMode

	case prevMode.IsTurning():
		// stay in the turn until the head angle swings across to the
		// other side of the continue threshold
		if prev.HeadAngle() < 0 {
			if -headAngle > p.MinHeadAngleToContinueTurning {
				mode = prevMode
			}
		} else if headAngle > p.MinHeadAngleToContinueTurning {
			mode = prevMode
		}

	case prevMode.IsCasting():
		bodySpeed := math.Abs(f.SmoothedBodyAngleSpeed)
		headSpeed := math.Abs(f.SmoothedHeadAngleSpeed)
		switch {
		case bodySpeed > p.MinBodyAngleSpeedForTurns && headSpeed < p.MinHeadAngleSpeedToContinueCasting:
			if prevMode == CastLeft {
				mode = TurnLeft
			} else {
				mode = TurnRight
			}
		case math.Abs(headAngle) > p.MinHeadAngleToContinueCasting || headSpeed > p.MinHeadAngleSpeedToContinueCasting:
			mode = castToward(headLeft)
		}

	case math.Abs(headAngle) > p.MinHeadAngleForCasting:
		mode = castToward(headLeft)
	}

	if mode == "" {
		threshold := p.DotProductThresholdForStraightModes
		dot := f.SmoothedTailSpeedDotBodyAngle
		switch {
		case dot > threshold:
			mode = Run
		case dot < -threshold:
			mode = BackUp
			f.TimeBackingUp = accumulate(prev.TimeBackingUp, elapsed)
		default:
			mode = Stop
			f.TimeStopped = accumulate(prev.TimeStopped, elapsed)
		}
	}

	switch {
	case f.TimeBackingUp != nil:
		mode = f.gateStraightMode(mode, prevMode, *f.TimeBackingUp, p.MinStopOrBackUpDuration)
	case f.TimeStopped != nil:
		mode = f.gateStraightMode(mode, prevMode, *f.TimeStopped, p.MinStopOrBackUpDuration)
	case mode != prevMode:
		f.TimeSinceLastModeChange = 0
	}

	f.Mode = mode
}

// gateStraightMode holds the previous mode until a stop or back-up has
// lasted minDuration.
func (f *Frame) gateStraightMode(mode, prevMode Mode, held, minDuration int64) Mode {
	if held < minDuration {
		return prevMode
	}
	f.TimeSinceLastModeChange = held - minDuration
	return mode
}

func castToward(headLeft bool) Mode {
	if headLeft {
		return CastLeft
	}
	return CastRight
}

func accumulate(prev *int64, elapsed int64) *int64 {
	v := int64(0)
	if prev != nil {
		v = *prev + elapsed
	}
	return &v
}
