package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func (d *Desktop) show(ctx context.Context, kind Kind, title, message string) error {
	script := fmt.Sprintf("display notification %s with title %s subtitle %s",
		appleScriptString(message), appleScriptString(title), appleScriptString(d.appName))
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
