//go:build !linux && !darwin && !windows

package notify

import (
	"context"
	"fmt"
	"runtime"
)

func (d *Desktop) show(context.Context, Kind, string, string) error {
	return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
}
