package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/version"
)

// Application branding constants
const (
	AppName   = "HATUI"
	GitHubURL = "github.com/muurk/hatui"
)

// Layout constants
const (
	DefaultWidth  = 100 // Used until the first WindowSizeMsg arrives
	DefaultHeight = 32
	MinTileWidth  = 18
	MinTileHeight = 5
	chromeHeight  = 9 // header, title, notice, status, help and borders
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)

	// Tile frame colors
	OnColor       = lipgloss.Color("#43BF6D") // Green
	OffColor      = lipgloss.Color("#E05252") // Red
	UnknownColor  = lipgloss.Color("#E5C07B") // Yellow
	HoldingColor  = lipgloss.Color("#C678DD") // Magenta
	MovingColor   = lipgloss.Color("#5C6370") // Grey
	SelectedColor = lipgloss.Color("#56B6C2") // Cyan
	DefaultColor  = lipgloss.Color("#61AFEF") // Blue
)

// dashedBorder marks the original cell of a tile that is being moved.
var dashedBorder = lipgloss.Border{
	Top:         "╌",
	Bottom:      "╌",
	Left:        "╎",
	Right:       "╎",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedListItemStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	EmptyCellStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Align(lipgloss.Center, lipgloss.Center)
)

// borderColor maps a tile frame to its color.
func borderColor(b entity.Border) lipgloss.Color {
	switch b {
	case entity.BorderOn:
		return OnColor
	case entity.BorderOff:
		return OffColor
	case entity.BorderUnknown:
		return UnknownColor
	case entity.BorderHolding:
		return HoldingColor
	case entity.BorderMoving:
		return MovingColor
	case entity.BorderSelected:
		return SelectedColor
	}
	return DefaultColor
}

// tileStyle returns the frame for a tile cell of the given inner size.
func tileStyle(b entity.Border, width, height int) lipgloss.Style {
	border := lipgloss.ThickBorder()
	if b == entity.BorderMoving {
		border = dashedBorder
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor(b)).
		Width(width).
		Height(height).
		Padding(0, 1)
}

// noticeStyle colors a notification by severity.
func noticeStyle(level noticeLevel) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch level {
	case noticeWarning:
		return style.Foreground(WarningColor)
	case noticeError:
		return style.Foreground(ErrorColor)
	}
	return style.Foreground(SecondaryColor)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps the dashboard in a full-screen bordered
// panel with a header and a footer pinned to the bottom.
func RenderApplicationContainer(content, footerText string, terminalWidth, terminalHeight int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(HelpStyle.Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers modal content over a dimmed backdrop.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth keeps a modal inside the terminal.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}
