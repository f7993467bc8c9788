// Package protocol encodes and decodes the tracker's line protocol.
//
// Every message is one line framed as <type,version,field,...>. Requests are
// parsed into a Message; responses are built with the constructors in
// response.go and written with String.
package protocol

import (
	"strings"
)

const (
	beginTag  = '<'
	endTag    = '>'
	separator = ","
)

// Type names a message.
type Type string

// Message types.
const (
	ListConfigurationsRequest    Type = "list-configurations-request"
	ListConfigurationsResponse   Type = "list-configurations-response"
	ArenaBackgroundRequest       Type = "arena-background-request"
	ArenaBackgroundResponse      Type = "arena-background-response"
	OpenSessionRequest           Type = "open-session-request"
	OpenSessionResponse          Type = "open-session-response"
	GetSessionParametersRequest  Type = "get-session-parameters-request"
	GetSessionParametersResponse Type = "get-session-parameters-response"
	CloseSessionRequest          Type = "close-session-request"
	StatusResponse               Type = "status-response"
	LarvaSkeletonRequest         Type = "larva-skeleton-request"
	LarvaSkeletonResponse        Type = "larva-skeleton-response"
)

// minimumFields is the request registry: the fields each request type
// needs after its version.
var minimumFields = map[Type]int{
	ListConfigurationsRequest:   0,
	ArenaBackgroundRequest:      4,
	OpenSessionRequest:          2,
	GetSessionParametersRequest: 1,
	CloseSessionRequest:         1,
	LarvaSkeletonRequest:        13,
}

// IsRequest reports whether t is a request type.
func (t Type) IsRequest() bool { return strings.HasSuffix(string(t), "request") }

func (t Type) String() string { return string(t) }

// Message is one decoded or to-be-encoded protocol line.
type Message struct {
	Type    Type
	Version string
	Fields  []string
}

// Field returns field i, or "" when the message is shorter.
func (m *Message) Field(i int) string {
	if i < 0 || i >= len(m.Fields) {
		return ""
	}
	return m.Fields[i]
}

// Add appends fields.
func (m *Message) Add(fields ...string) {
	m.Fields = append(m.Fields, fields...)
}

// Len is the number of fields after the version.
func (m *Message) Len() int { return len(m.Fields) }

// String encodes the message without a line terminator.
func (m *Message) String() string {
	var sb strings.Builder
	sb.Grow(256)
	sb.WriteByte(beginTag)
	sb.WriteString(string(m.Type))
	sb.WriteString(separator)
	sb.WriteString(m.Version)
	for _, f := range m.Fields {
		sb.WriteString(separator)
		sb.WriteString(f)
	}
	sb.WriteByte(endTag)
	return sb.String()
}

// Parse decodes a request line. Interior empty fields are kept; an empty
// field after a trailing separator is dropped. Failures wrap ErrBadRequest.
func Parse(line string) (*Message, error) {
	if len(line) < 3 {
		return nil, Errorf(ErrBadRequest, "invalid request: message too short")
	}
	if line[0] != beginTag {
		return nil, Errorf(ErrBadRequest, "invalid request: message missing begin tag")
	}
	end := len(line) - 1
	if line[end] != endTag {
		return nil, Errorf(ErrBadRequest, "invalid request: message missing end tag")
	}

	body := line[1:end]
	name, rest, hasRest := strings.Cut(body, separator)
	t := Type(name)
	min, ok := minimumFields[t]
	if !ok {
		return nil, Errorf(ErrBadRequest, "invalid request: unknown message type '%s'", name)
	}

	var (
		version string
		fields  []string
	)
	if hasRest && rest != "" {
		version, rest, hasRest = strings.Cut(rest, separator)
		if hasRest && rest != "" {
			fields = strings.Split(rest, separator)
			if fields[len(fields)-1] == "" {
				fields = fields[:len(fields)-1]
			}
		}
	}

	if len(fields) < min {
		return nil, Errorf(ErrBadRequest, "invalid request: type '%s' must have at least %d fields", name, min+2)
	}
	return &Message{Type: t, Version: version, Fields: fields}, nil
}

// Abbreviate shortens long lines for console logging to their first and
// last 50 characters.
func Abbreviate(text string) string {
	if len(text) <= 110 {
		return text
	}
	return text[:50] + " ... " + text[len(text)-50:]
}
