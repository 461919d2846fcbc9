//go:build !linux && !darwin && !windows

package notify

import (
	"context"
	"fmt"
	"runtime"
)

func (s *Sound) play(context.Context, Kind) error {
	return fmt.Errorf("sound cues are not supported on %s", runtime.GOOS)
}
