package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/venkman/internal/domain/stimulus"
	types "github.com/okian/venkman/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFrameUpdate(t *testing.T) {
	Convey("Given a frame update", t, func() {
		u := types.FrameUpdate{
			SessionID:   "sid-3",
			CaptureTime: 22,
			Mode:        "run",
			HeadX:       4,
			HeadY:       5,
			Stimulus:    []stimulus.LED{{Intensity: 12.5, Duration: 60}},
		}

		Convey("When it is encoded", func() {
			out, err := json.Marshal(u)

			Convey("Then the monitor field names are used", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldContainSubstring, `"session_id":"sid-3"`)
				So(string(out), ShouldContainSubstring, `"mode":"run"`)
				So(string(out), ShouldContainSubstring, `"stimulus":[{"intensity":12.5,"duration":60}]`)
			})
		})

		Convey("When it has no stimulus", func() {
			u.Stimulus = nil
			out, err := json.Marshal(u)

			Convey("Then the field is omitted", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldNotContainSubstring, "stimulus")
			})
		})
	})
}
