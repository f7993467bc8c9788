package protocol

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/okian/venkman/internal/domain/stimulus"
)

// Response status codes.
const (
	StatusOK          = 200
	StatusBadRequest  = 400
	StatusNotFound    = 404
	StatusServerError = 500
)

// fixedVersion is the version carried by responses that do not echo the
// request's version.
const fixedVersion = "1"

// NewResponse starts a response whose first field is status.
func NewResponse(t Type, version string, status int) *Message {
	return &Message{Type: t, Version: version, Fields: []string{strconv.Itoa(status)}}
}

// Status builds a status-response.
func Status(status int, text string) *Message {
	m := NewResponse(StatusResponse, fixedVersion, status)
	m.Add(text)
	return m
}

// ErrorResponse answers err with the status its kind maps to. Server errors
// keep only the first line and replace commas so the message stays one field.
func ErrorResponse(err error) *Message {
	status := StatusOf(err)
	text := err.Error()
	if status == StatusServerError {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		text = strings.ReplaceAll(text, ",", ";")
	}
	return Status(status, text)
}

// ListConfigurations answers a list request with names.
func ListConfigurations(version string, names []string) *Message {
	m := NewResponse(ListConfigurationsResponse, version, StatusOK)
	m.Add(names...)
	return m
}

// OpenSession answers an open request with the session id.
func OpenSession(version, sessionID string) *Message {
	m := NewResponse(OpenSessionResponse, version, StatusOK)
	m.Add(sessionID)
	return m
}

// LarvaSkeleton answers a skeleton request with the capture time, behavior
// mode and the intensity and duration of every LED command.
func LarvaSkeleton(version string, captureTime int64, mode string, leds []stimulus.LED) *Message {
	m := NewResponse(LarvaSkeletonResponse, version, StatusOK)
	m.Add(strconv.FormatInt(captureTime, 10), mode)
	for _, l := range leds {
		m.Add(FormatDouble(l.Intensity), strconv.FormatInt(l.Duration, 10))
	}
	return m
}

// ArenaBackground answers with the arena's width, height and row-major
// values. A nil or empty arena is sent as 0x0.
func ArenaBackground(arena [][]float64) *Message {
	m := NewResponse(ArenaBackgroundResponse, fixedVersion, StatusOK)
	if len(arena) == 0 {
		m.Add("0", "0")
		return m
	}
	width := len(arena[0])
	m.Fields = append(make([]string, 0, 3+width*len(arena)), m.Fields...)
	m.Add(strconv.Itoa(width), strconv.Itoa(len(arena)))
	for _, row := range arena {
		for _, v := range row {
			m.Add(FormatArenaValue(v))
		}
	}
	return m
}

// SessionParameters answers with payload in standard base64.
func SessionParameters(payload []byte) *Message {
	m := NewResponse(GetSessionParametersResponse, fixedVersion, StatusOK)
	m.Add(base64.StdEncoding.EncodeToString(payload))
	return m
}
