package notify

import (
	"log"
	"os/exec"
	"runtime"
)

// Alerter raises a native OS alert for a notification that passed the
// policy gate. Implementations must not block on user interaction.
type Alerter interface {
	Alert(title, body string) error
}

// execCommand is a seam for tests.
var execCommand = exec.Command

// ExecAlerter shells out to the platform's notification tool. The
// subprocess inherits no payload through argv beyond the rendered
// title and body, which are already user-visible strings.
type ExecAlerter struct {
	l *log.Logger
}

// NewExecAlerter creates an alerter for the current platform.
func NewExecAlerter(l *log.Logger) *ExecAlerter {
	return &ExecAlerter{l: l}
}

// Alert dispatches the notification and waits for the tool to exit.
func (a *ExecAlerter) Alert(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := `display notification ` + appleQuote(body) + ` with title ` + appleQuote(title)
		cmd = execCommand("osascript", "-e", script)
	case "windows":
		cmd = execCommand("powershell", "-NoProfile", "-Command",
			"New-BurntToastNotification -Text "+psQuote(title)+","+psQuote(body))
	default:
		cmd = execCommand("notify-send", title, body)
	}
	if err := cmd.Run(); err != nil {
		a.l.Printf("native alert failed: %v", err)
		return err
	}
	return nil
}

func appleQuote(s string) string {
	out := `"`
	for _, r := range s {
		if r == '"' || r == '\\' {
			out += `\`
		}
		out += string(r)
	}
	return out + `"`
}

func psQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += "'"
		}
		out += string(r)
	}
	return out + "'"
}

// LogAlerter writes alerts to the daemon log. Used when no native
// notification tool is available.
type LogAlerter struct {
	l *log.Logger
}

func NewLogAlerter(l *log.Logger) *LogAlerter {
	return &LogAlerter{l: l}
}

func (a *LogAlerter) Alert(title, body string) error {
	a.l.Printf("ALERT: %s: %s", title, body)
	return nil
}

// NopAlerter discards alerts. Used in tests.
type NopAlerter struct{}

func (NopAlerter) Alert(title, body string) error { return nil }
