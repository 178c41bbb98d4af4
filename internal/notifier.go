package internal

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Notifier reports the outcome of a run.
type Notifier interface {
	Notify(ctx context.Context, success bool, message string) error
	Close() error
}

// ConsoleNotifier prints a status line.
type ConsoleNotifier struct {
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(ctx context.Context, success bool, message string) error {
	status := color.New(color.FgGreen, color.Bold).Sprint("✓ SUCCESS")
	if !success {
		status = color.New(color.FgRed, color.Bold).Sprint("✗ FAILED")
	}
	_, err := fmt.Fprintf(n.out, "\n%s: %s\n", status, message)
	return err
}

func (n *ConsoleNotifier) Close() error { return nil }

// notifiers fans a notification out; a failing notifier only logs.
type notifiers struct {
	list []Notifier
	log  zerolog.Logger
}

func (n *notifiers) Notify(ctx context.Context, success bool, message string) {
	for _, notifier := range n.list {
		if err := notifier.Notify(ctx, success, message); err != nil {
			n.log.Warn().Msgf("Notification failed: %v", err)
		}
	}
}

func (n *notifiers) Close() {
	for _, notifier := range n.list {
		notifier.Close()
	}
}
