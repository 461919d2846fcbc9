package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Console writes notifications as single lines, for headless daemons and
// for the interactive shell.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewConsole creates a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, now: time.Now}
}

func (c *Console) Notify(_ context.Context, kind Kind, title, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "%s [%s] %s: %s\n", c.now().Format("15:04"), kind, title, message)
	if err != nil {
		return fmt.Errorf("%w: console: %v", ErrUnreachable, err)
	}
	return nil
}
