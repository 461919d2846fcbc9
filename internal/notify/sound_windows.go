package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

var procBeep = windows.NewLazySystemDLL("kernel32.dll").NewProc("Beep")

type beepPattern struct {
	count    int
	freqHz   uintptr
	duration time.Duration
	pause    time.Duration
}

var (
	advanceBeeps = beepPattern{count: 2, freqHz: 600, duration: 400 * time.Millisecond, pause: 200 * time.Millisecond}
	mainBeeps    = beepPattern{count: 5, freqHz: 1000, duration: 500 * time.Millisecond, pause: 150 * time.Millisecond}
)

func (s *Sound) play(ctx context.Context, kind Kind) error {
	p := mainBeeps
	if kind == Advance {
		p = advanceBeeps
	}
	if err := procBeep.Find(); err != nil {
		return err
	}
	for i := 0; i < p.count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, _, callErr := procBeep.Call(p.freqHz, uintptr(p.duration.Milliseconds()))
		if r == 0 {
			return fmt.Errorf("Beep: %v", callErr)
		}
		time.Sleep(p.pause)
	}
	return nil
}
