package session

import (
	"context"

	"github.com/okian/venkman/internal/adapters/repository"
	"github.com/okian/venkman/internal/domain/model"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/internal/domain/types"
)

// Resolver looks up configurations.
type Resolver interface {
	ConfigurationNames(ctx context.Context, version string) ([]string, error)
	Resolve(ctx context.Context, name string) (repository.Resolved, error)
}

// Recorder accepts session log records. Record must not block on I/O; Stop
// flushes and closes the log.
type Recorder interface {
	Record(ctx context.Context, r model.Record)
	Stop(ctx context.Context) error
}

// Observer is told about every processed frame. Publish must not block.
type Observer interface {
	Publish(u types.FrameUpdate)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, model.Record) {}
func (nopRecorder) Stop(context.Context) error           { return nil }

type nopObserver struct{}

func (nopObserver) Publish(types.FrameUpdate) {}

// ruleSink forwards rule data into the session log.
type ruleSink struct {
	recorder Recorder
}

func (k ruleSink) LogRuleData(d rules.RuleData) {
	k.recorder.Record(context.Background(), model.NewRecord(model.KindRuleData, d))
}
