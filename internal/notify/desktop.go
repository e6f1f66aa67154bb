package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external command
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Desktop shows alerts as OS notifications through notify-send
type Desktop struct {
	appID string
	run   Runner
}

// NewDesktop creates a desktop notifier. A nil runner executes notify-send.
func NewDesktop(appID string, run Runner) *Desktop {
	if run == nil {
		run = execRunner
	}
	return &Desktop{appID: appID, run: run}
}

func (d *Desktop) Notify(ctx context.Context, alert Alert) error {
	args := []string{
		"--app-name=" + d.appID,
		"--hint=string:sound-name:message-new-instant",
		alert.Summary,
		alert.Body,
	}
	if err := d.run(ctx, "notify-send", args...); err != nil {
		return fmt.Errorf("failed to show desktop notification: %w", err)
	}
	return nil
}
