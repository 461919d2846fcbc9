package notify

import (
	"context"
	"fmt"
	"time"
)

// Desktop shows notifications through the operating system's notification
// facility. The platform mechanism is selected at build time.
type Desktop struct {
	appName string
}

// NewDesktop creates a desktop sink that identifies itself as appName.
func NewDesktop(appName string) *Desktop {
	if appName == "" {
		appName = "Reminder"
	}
	return &Desktop{appName: appName}
}

func (d *Desktop) Notify(ctx context.Context, kind Kind, title, message string) error {
	if err := d.show(ctx, kind, title, message); err != nil {
		return fmt.Errorf("%w: desktop: %v", ErrUnreachable, err)
	}
	return nil
}

// displayTimeout is how long the notification stays on screen. The warning
// is shorter than the reminder itself.
func displayTimeout(kind Kind) time.Duration {
	if kind == Main {
		return 15 * time.Second
	}
	return 10 * time.Second
}
