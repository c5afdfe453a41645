package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/contactx/contactx/internal/client/resilience"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorDanger  = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	toastBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func toastStyle(level resilience.Level) lipgloss.Style {
	switch level {
	case resilience.LevelError:
		return toastBase.BorderForeground(colorDanger).Foreground(colorDanger)
	case resilience.LevelSuccess:
		return toastBase.BorderForeground(colorSuccess).Foreground(colorSuccess)
	default:
		return toastBase.BorderForeground(colorInfo).Foreground(colorInfo)
	}
}

// ToastNotifier draws toasts as bordered boxes on w.
type ToastNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewToastNotifier(w io.Writer) *ToastNotifier {
	return &ToastNotifier{w: w}
}

func (n *ToastNotifier) Notify(_ context.Context, level resilience.Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, toastStyle(level).Render(msg))
}
