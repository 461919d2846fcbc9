package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/notexe/reminder/internal/logger"
)

func failing(err error) Sink {
	return SinkFunc(func(context.Context, Kind, string, string) error { return err })
}

func recording(calls *[]string) Sink {
	return SinkFunc(func(_ context.Context, kind Kind, title, _ string) error {
		*calls = append(*calls, kind.String()+":"+title)
		return nil
	})
}

func TestKindString(t *testing.T) {
	if Advance.String() != "advance" || Main.String() != "main" {
		t.Fatalf("unexpected kind names %q %q", Advance, Main)
	}
	if Kind(9).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range kind")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.now = func() time.Time { return time.Date(2024, 1, 31, 8, 50, 0, 0, time.UTC) }

	if err := c.Notify(context.Background(), Advance, "Upcoming: Staff meeting", "In 10 minutes: Room 4"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	want := "08:50 [advance] Upcoming: Staff meeting: In 10 minutes: Room 4\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("partial failure succeeds and logs", func(t *testing.T) {
		var calls []string
		log := logger.NewMockLogger()
		m := NewMulti(log,
			Named{Name: "desktop", Sink: failing(boom)},
			Named{Name: "console", Sink: recording(&calls)},
		)
		if err := m.Notify(ctx, Main, "t", "m"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(calls) != 1 || calls[0] != "main:t" {
			t.Errorf("expected console delivery, got %v", calls)
		}
		warnings := log.WarningCalls()
		if len(warnings) != 1 || !strings.Contains(warnings[0], "desktop: boom") {
			t.Errorf("expected desktop warning, got %v", warnings)
		}
	})

	t.Run("all fail", func(t *testing.T) {
		m := NewMulti(nil,
			Named{Name: "desktop", Sink: failing(boom)},
			Named{Name: "sound", Sink: failing(errors.New("no player"))},
		)
		err := m.Notify(ctx, Advance, "t", "m")
		if !errors.Is(err, ErrUnreachable) {
			t.Fatalf("expected ErrUnreachable, got %v", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("expected joined cause, got %v", err)
		}
	})

	t.Run("no sinks", func(t *testing.T) {
		if err := NewMulti(nil).Notify(ctx, Main, "t", "m"); !errors.Is(err, ErrUnreachable) {
			t.Fatalf("expected ErrUnreachable, got %v", err)
		}
	})
}

func TestTelegram(t *testing.T) {
	var got telegramSendRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42")
	tg.baseURL = srv.URL

	if err := tg.Notify(context.Background(), Advance, "Upcoming: <Exam>", "In 10 minutes"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("unexpected path %q", path)
	}
	if got.ChatID != "42" || got.ParseMode != "HTML" {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Text != "<i><b>Upcoming: &lt;Exam&gt;</b>\nIn 10 minutes</i>" {
		t.Errorf("unexpected text %q", got.Text)
	}
}

func TestTelegramAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42")
	tg.baseURL = srv.URL

	err := tg.Notify(context.Background(), Main, "t", "m")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected API description in error, got %v", err)
	}
}

func TestDisplayTimeout(t *testing.T) {
	if displayTimeout(Main) <= displayTimeout(Advance) {
		t.Errorf("main notification should stay longer than the advance warning")
	}
}
