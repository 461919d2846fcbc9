package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// NotifyIcon balloons disappear with the icon, so the script keeps it alive
// briefly before disposing it.
const balloonScript = `
Add-Type -AssemblyName System.Windows.Forms
$n = New-Object System.Windows.Forms.NotifyIcon
$n.Icon = [System.Drawing.SystemIcons]::Information
$n.BalloonTipIcon = '%s'
$n.BalloonTipTitle = '%s'
$n.BalloonTipText = '%s'
$n.Text = '%s'
$n.Visible = $true
$n.ShowBalloonTip(%d)
Start-Sleep -Seconds 5
$n.Dispose()
`

func (d *Desktop) show(ctx context.Context, kind Kind, title, message string) error {
	icon := "Info"
	if kind == Main {
		icon = "Warning"
	}
	ms := displayTimeout(kind).Milliseconds()
	script := fmt.Sprintf(balloonScript, icon, psString(title), psString(message), psString(truncate(d.appName, 63)), ms)

	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("powershell: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// psString escapes s for a single-quoted PowerShell literal.
func psString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
