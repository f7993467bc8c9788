package trackersim

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/protocol"
)

const (
	parametersOpen  = "<venkmanParameters>\n"
	parametersClose = "\n</venkmanParameters>"
)

// FrameResult is a verified skeleton reply.
type FrameResult struct {
	Mode frame.Mode
	LEDs int
}

// VerifySkeletonReply checks that r answers the skeleton captured at
// captureTime with a known mode and well-formed LED commands.
func VerifySkeletonReply(r *Reply, version string, captureTime int64) (FrameResult, error) {
	if err := r.Expect(protocol.LarvaSkeletonResponse); err != nil {
		return FrameResult{}, err
	}
	if r.Version != version {
		return FrameResult{}, fmt.Errorf("%w: version %s does not echo %s", ErrVerification, r.Version, version)
	}
	if len(r.Fields) < 2 {
		return FrameResult{}, fmt.Errorf("%w: skeleton reply %q is too short", ErrVerification, r.Line)
	}
	if want := strconv.FormatInt(captureTime, 10); r.Fields[0] != want {
		return FrameResult{}, fmt.Errorf("%w: capture time %s does not echo %s", ErrVerification, r.Fields[0], want)
	}
	mode, err := frame.ParseMode(r.Fields[1])
	if err != nil {
		return FrameResult{}, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	leds := r.Fields[2:]
	if len(leds)%2 != 0 {
		return FrameResult{}, fmt.Errorf("%w: odd number of LED fields in %q", ErrVerification, r.Line)
	}
	for i := 0; i < len(leds); i += 2 {
		intensity, err := strconv.ParseFloat(leds[i], 64)
		if err != nil || intensity < 0 || intensity > 100 {
			return FrameResult{}, fmt.Errorf("%w: intensity '%s' is not a percentage", ErrVerification, leds[i])
		}
		duration, err := strconv.ParseInt(leds[i+1], 10, 64)
		if err != nil || duration < 0 {
			return FrameResult{}, fmt.Errorf("%w: duration '%s' is not a non-negative integer", ErrVerification, leds[i+1])
		}
	}
	return FrameResult{Mode: mode, LEDs: len(leds) / 2}, nil
}

// VerifyParametersReply decodes the session parameters payload.
func VerifyParametersReply(r *Reply) (string, error) {
	if err := r.Expect(protocol.GetSessionParametersResponse); err != nil {
		return "", err
	}
	if len(r.Fields) != 1 {
		return "", fmt.Errorf("%w: parameters reply has %d fields", ErrVerification, len(r.Fields))
	}
	payload, err := base64.StdEncoding.DecodeString(r.Fields[0])
	if err != nil {
		return "", fmt.Errorf("%w: parameters are not base64: %w", ErrVerification, err)
	}
	text := string(payload)
	if !strings.HasPrefix(text, parametersOpen) || !strings.HasSuffix(text, parametersClose) {
		return "", fmt.Errorf("%w: parameters are not wrapped in venkmanParameters", ErrVerification)
	}
	return strings.TrimSuffix(strings.TrimPrefix(text, parametersOpen), parametersClose), nil
}
