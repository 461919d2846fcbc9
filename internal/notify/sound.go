package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sound plays an audible cue: a short, soft cue for the advance warning and
// a longer, repeated cue for the reminder itself.
type Sound struct{}

// NewSound creates a sound sink for the current platform.
func NewSound() *Sound {
	return &Sound{}
}

func (s *Sound) Notify(ctx context.Context, kind Kind, _, _ string) error {
	if err := s.play(ctx, kind); err != nil {
		return fmt.Errorf("%w: sound: %v", ErrUnreachable, err)
	}
	return nil
}

// repeatCommand runs the same player command n times with a pause between
// runs, stopping early when ctx is done.
func repeatCommand(ctx context.Context, n int, pause time.Duration, name string, args ...string) error {
	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}
		out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}
