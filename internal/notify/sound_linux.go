package notify

import (
	"context"
	"time"
)

const freedesktopSound = "/usr/share/sounds/freedesktop/stereo/message.oga"

func (s *Sound) play(ctx context.Context, kind Kind) error {
	if kind == Advance {
		return repeatCommand(ctx, 1, 0, "paplay", freedesktopSound)
	}
	return repeatCommand(ctx, 3, 100*time.Millisecond, "paplay", freedesktopSound)
}
