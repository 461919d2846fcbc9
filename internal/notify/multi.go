package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/notexe/reminder/internal/logger"
)

// Named pairs a sink with the name used in logs and configuration.
type Named struct {
	Name string
	Sink Sink
}

// Multi fans a notification out to several sinks in order. It succeeds if
// at least one sink delivered, so a broken secondary channel does not cause
// the reminder to be re-dispatched on the channels that worked.
type Multi struct {
	sinks []Named
	log   logger.Logger
}

// NewMulti creates a fan-out sink. A nil log discards partial failures.
func NewMulti(log logger.Logger, sinks ...Named) *Multi {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Multi{sinks: sinks, log: log}
}

func (m *Multi) Notify(ctx context.Context, kind Kind, title, message string) error {
	if len(m.sinks) == 0 {
		return fmt.Errorf("%w: no sinks configured", ErrUnreachable)
	}

	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Notify(ctx, kind, title, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}

	if len(errs) == len(m.sinks) {
		return fmt.Errorf("%w: %w", ErrUnreachable, errors.Join(errs...))
	}
	for _, err := range errs {
		m.log.Warning("[notify] %v", err)
	}
	return nil
}
