package session

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/okian/venkman/internal/adapters/repository"
	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/model"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/internal/domain/types"
	"github.com/okian/venkman/internal/protocol"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

const (
	parametersOpen  = "<venkmanParameters>\n"
	parametersClose = "\n</venkmanParameters>"
	// arenaSeed makes arena renders independent of the session's draws.
	arenaSeed = 1
)

// Handle answers one request line. It reports whether the line was a
// skeleton request so the caller can time it.
func (s *Session) Handle(ctx context.Context, line string) (*protocol.Message, bool) {
	m, err := protocol.Parse(line)
	if err != nil {
		s.logger.Warn(ctx, "rejected request", logger.String("session", s.id),
			logger.String("message", protocol.Abbreviate(line)), logger.Error(err))
		metrics.RecordRequest("invalid", strconv.Itoa(protocol.StatusOf(err)))
		return protocol.ErrorResponse(err), false
	}

	verbose := m.Type != protocol.LarvaSkeletonRequest
	if verbose {
		s.logger.Debug(ctx, "received", logger.Int("fields", m.Len()+2), logger.String("message", protocol.Abbreviate(line)))
	}

	var resp *protocol.Message
	switch m.Type {
	case protocol.ListConfigurationsRequest:
		resp, err = s.listConfigurations(ctx, m)
	case protocol.ArenaBackgroundRequest:
		resp, err = s.arenaBackground(ctx, m)
	case protocol.OpenSessionRequest:
		resp, err = s.openSession(ctx, m)
	case protocol.LarvaSkeletonRequest:
		resp, err = s.processSkeleton(ctx, m)
	case protocol.GetSessionParametersRequest:
		resp, err = s.sessionParameters(ctx, m)
	case protocol.CloseSessionRequest:
		resp, err = s.closeSession(ctx, m)
	}

	if err != nil {
		resp = protocol.ErrorResponse(err)
		if isServerError(err) {
			metrics.RecordErrorByComponent("session", "server_error")
			s.logger.Error(ctx, "request failed", logger.String("session", s.id),
				logger.String("type", m.Type.String()), logger.Error(err))
		} else {
			s.logger.Warn(ctx, "request rejected", logger.String("session", s.id),
				logger.String("type", m.Type.String()), logger.Error(err))
		}
	}
	metrics.RecordRequest(m.Type.String(), resp.Field(0))

	if verbose {
		out := resp.String()
		s.logger.Debug(ctx, "returning", logger.Int("fields", resp.Len()+2), logger.String("message", protocol.Abbreviate(out)))
	}
	return resp, !verbose
}

func (s *Session) validateSessionID(m *protocol.Message) error {
	if got := m.Field(0); got != s.id {
		return protocol.Errorf(ErrSessionMismatch, "invalid request: expected session id '%s' but received '%s'", s.id, got)
	}
	return nil
}

func (s *Session) requireOpen() error {
	if !s.opened {
		return protocol.Errorf(ErrNotOpen, "invalid request: session '%s' has not been opened", s.id)
	}
	return nil
}

func (s *Session) resolve(ctx context.Context, name, request string) (repository.Resolved, error) {
	r, err := s.store.Resolve(ctx, name)
	switch {
	case err == nil:
		metrics.RecordConfigurationLookup("found")
		return r, nil
	case repository.IsNotFound(err):
		metrics.RecordConfigurationLookup("not_found")
		return r, protocol.Errorf(ErrConfigurationNotFound, "invalid %s request: configuration '%s' not found", request, name)
	default:
		metrics.RecordConfigurationLookup("error")
		return r, fmt.Errorf("invalid %s request: %w", request, err)
	}
}

func (s *Session) listConfigurations(ctx context.Context, m *protocol.Message) (*protocol.Message, error) {
	names, err := s.store.ConfigurationNames(ctx, m.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	return protocol.ListConfigurations(m.Version, names), nil
}

func (s *Session) arenaBackground(ctx context.Context, m *protocol.Message) (*protocol.Message, error) {
	name := m.Field(1)
	width, err := strconv.Atoi(m.Field(2))
	if err != nil {
		return nil, protocol.Errorf(ErrInvalidField, "invalid request: arena width '%s' is not an integer", m.Field(2))
	}
	height, err := strconv.Atoi(m.Field(3))
	if err != nil {
		return nil, protocol.Errorf(ErrInvalidField, "invalid request: arena height '%s' is not an integer", m.Field(3))
	}

	r, err := s.resolve(ctx, name, "arena background")
	if err != nil {
		return nil, err
	}
	if r.Rule == nil {
		return protocol.ArenaBackground(nil), nil
	}
	provider, ok := r.Rule.Build(rand.New(rand.NewSource(arenaSeed))).(rules.ArenaProvider)
	if !ok {
		return protocol.ArenaBackground(nil), nil
	}
	arena, err := provider.Arena(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to render arena for %s: %w", name, err)
	}
	return protocol.ArenaBackground(arena), nil
}

func (s *Session) openSession(ctx context.Context, m *protocol.Message) (*protocol.Message, error) {
	clientVersion, name := m.Field(0), m.Field(1)
	r, err := s.resolve(ctx, name, "open session")
	if err != nil {
		return nil, err
	}

	params := r.Parameters
	s.doc, s.rule = r.Rule, nil
	if r.Rule != nil {
		s.rule = r.Rule.Build(s.rng)
		s.rule.Init(ruleSink{recorder: s.recorder})
		params = s.rule.OverrideParameters(params)
	}
	s.params = params
	s.history = frame.NewHistory(frame.RetentionFor(params))
	s.opened = true

	code := ""
	if s.rule != nil {
		code = s.rule.Code()
	}
	s.infoMu.Lock()
	s.configuration, s.ruleCode = name, code
	s.infoMu.Unlock()

	s.recorder.Record(ctx, model.NewRecord(model.KindConfiguration, r.Configuration))
	s.recorder.Record(ctx, model.NewRecord(model.KindBehaviorParameters, s.params))
	if s.doc != nil {
		s.recorder.Record(ctx, model.NewRecord(model.KindStimulusRule, s.doc))
	}

	s.logger.Info(ctx, "opened session", logger.String("session", s.id), logger.String("configuration", name),
		logger.String("client_version", clientVersion), logger.String("rule", code))
	return protocol.OpenSession(m.Version, s.id), nil
}

func (s *Session) processSkeleton(ctx context.Context, m *protocol.Message) (*protocol.Message, error) {
	if err := s.validateSessionID(m); err != nil {
		return nil, err
	}
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	sk, err := frame.ParseSkeleton(m.Fields[1:])
	if err != nil {
		return nil, protocol.Errorf(ErrInvalidField, "invalid request: %v", err)
	}

	if err := s.history.CheckOrder(sk.CaptureTime); err != nil {
		return nil, protocol.Errorf(ErrInvalidField, "invalid request: %v", err)
	}

	f := frame.New(sk)
	f.Derive(s.history, s.params)
	s.history.Push(f)

	if s.rule != nil {
		leds, err := s.rule.DetermineStimulus(s.history, s.params)
		if err != nil {
			return nil, fmt.Errorf("failed to determine stimulus for frame %d: %w", sk.CaptureTime, err)
		}
		f.Stimulus = leds
	}

	s.recorder.Record(ctx, model.NewRecord(model.KindFrame, f))
	metrics.RecordBehaviorMode(f.Mode.String())
	metrics.RecordStimulusCommands(len(f.Stimulus))
	if f.SkippedSkeleton != nil {
		metrics.RecordJumpFrame()
	}
	s.observer.Publish(types.FrameUpdate{
		SessionID:   s.id,
		CaptureTime: sk.CaptureTime,
		Mode:        f.Mode.String(),
		HeadX:       sk.Head.X,
		HeadY:       sk.Head.Y,
		CentroidX:   sk.Centroid.X,
		CentroidY:   sk.Centroid.Y,
		Stimulus:    f.Stimulus,
	})

	return protocol.LarvaSkeleton(m.Version, sk.CaptureTime, f.Mode.String(), f.Stimulus), nil
}

func (s *Session) sessionParameters(_ context.Context, m *protocol.Message) (*protocol.Message, error) {
	if err := s.validateSessionID(m); err != nil {
		return nil, err
	}
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	payload, err := s.parametersPayload()
	if err != nil {
		return nil, err
	}
	return protocol.SessionParameters(payload), nil
}

// parametersPayload wraps the behavior parameters and rule document as YAML
// documents in the venkmanParameters envelope.
func (s *Session) parametersPayload() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(parametersOpen)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.params); err != nil {
		return nil, fmt.Errorf("failed to encode behavior parameters: %w", err)
	}
	if s.doc != nil {
		if err := enc.Encode(s.doc); err != nil {
			return nil, fmt.Errorf("failed to encode stimulus rule: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode session parameters: %w", err)
	}
	buf.WriteString(parametersClose)
	return buf.Bytes(), nil
}

func (s *Session) closeSession(ctx context.Context, m *protocol.Message) (*protocol.Message, error) {
	if err := s.validateSessionID(m); err != nil {
		return nil, err
	}
	s.Stop()
	s.logger.Info(ctx, "closing session", logger.String("session", s.id))
	return protocol.Status(protocol.StatusOK, "closed session "+s.id), nil
}
