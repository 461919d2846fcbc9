package notify

import (
	"context"
	"time"
)

func (s *Sound) play(ctx context.Context, kind Kind) error {
	if kind == Advance {
		return repeatCommand(ctx, 1, 0, "afplay", "/System/Library/Sounds/Tink.aiff")
	}
	return repeatCommand(ctx, 3, 100*time.Millisecond, "afplay", "/System/Library/Sounds/Glass.aiff")
}
