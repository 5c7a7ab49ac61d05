package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abdulachik/refiner/internal/notify"
)

var (
	colorPrimary = lipgloss.Color("#1677FF")
	colorMuted   = lipgloss.Color("#8C8C8C")
	colorSuccess = lipgloss.Color("#52C41A")
	colorInfo    = lipgloss.Color("#1677FF")
	colorWarning = lipgloss.Color("#FAAD14")
	colorError   = lipgloss.Color("#FF4D4F")
	colorBorder  = lipgloss.Color("#3A3A3A")
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	fieldErrorStyle   = lipgloss.NewStyle().Foreground(colorError)
	refinedBadgeStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	toastBase         = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func toastStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return toastBase.Foreground(colorSuccess)
	case notify.LevelWarning:
		return toastBase.Foreground(colorWarning)
	case notify.LevelError:
		return toastBase.Foreground(colorError)
	default:
		return toastBase.Foreground(colorInfo)
	}
}
