package design

import (
	"github.com/charmbracelet/lipgloss"
)

// Spacing units, in terminal cells.
const (
	SpaceNone = 0
	SpaceXS   = 1
	SpaceSM   = 2
	SpaceMD   = 3
	SpaceLG   = 4

	MinCardWidth   = 18
	MinPanelWidth  = 20
	MinPanelHeight = 4
	DialogMaxWidth = 100
)

// Palette
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

	ColorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}

	ColorBackground = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F0F0F"}
	ColorSurface    = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#1A1A1A"}
	ColorSurfaceAlt = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#262626"}
	ColorBorder     = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#404040"}
	ColorHighlight  = lipgloss.AdaptiveColor{Light: "#E8F4FF", Dark: "#1E3A5F"}

	ColorText          = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	ColorTextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorTextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// Text styles
var (
	TextStyle          = lipgloss.NewStyle().Foreground(ColorText)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	TextSuccessStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextErrorStyle     = lipgloss.NewStyle().Foreground(ColorError)
	TextWarningStyle   = lipgloss.NewStyle().Foreground(ColorWarning)
	TextInfoStyle      = lipgloss.NewStyle().Foreground(ColorInfo)
	DimStyle           = lipgloss.NewStyle().Foreground(ColorTextMuted)
	MonoPathStyle      = lipgloss.NewStyle().Foreground(ColorText).Background(ColorSurfaceAlt).Padding(0, SpaceXS)

	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	SectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	KeyHintStyle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorSurface).
			Padding(0, SpaceSM)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, SpaceXS)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, SpaceXS)

	PanelFocusedStyle = PanelStyle.
				BorderForeground(ColorPrimary)

	ListItemStyle         = lipgloss.NewStyle().PaddingLeft(SpaceSM)
	ListItemSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(SpaceSM).
				Foreground(ColorPrimary).
				Background(ColorHighlight).
				Bold(true)
	ListItemDisabledStyle = lipgloss.NewStyle().PaddingLeft(SpaceSM).Foreground(ColorTextMuted)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, SpaceXS)

	InputFocusedStyle = InputStyle.BorderForeground(ColorPrimary)

	InputErrorStyle = InputStyle.BorderForeground(ColorError)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, SpaceSM)

	ChipRequiredStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	ChipSecretStyle   = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	ChipKnownStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	ChipCurrentStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)

// Status bar styles, one per alert severity.
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurfaceAlt).
			Foreground(ColorText).
			Padding(0, SpaceSM).
			Height(1)

	StatusBarSuccessStyle = StatusBarStyle.Background(ColorSuccess).Foreground(ColorBackground)
	StatusBarErrorStyle   = StatusBarStyle.Background(ColorError).Foreground(ColorBackground)
	StatusBarWarningStyle = StatusBarStyle.Background(ColorWarning).Foreground(ColorBackground)
	StatusBarInfoStyle    = StatusBarStyle.Background(ColorInfo).Foreground(ColorBackground)
)

// Log level styles
var (
	LogInfoStyle  = lipgloss.NewStyle().Foreground(ColorText)
	LogWarnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	LogErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	LogDebugStyle = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
)

// GetStateStyle returns the text style for a service or stack state.
func GetStateStyle(state string) lipgloss.Style {
	switch state {
	case "running", "healthy":
		return TextSuccessStyle
	case "failed", "error", "unhealthy":
		return TextErrorStyle
	case "starting", "stopping", "restarting", "pending":
		return TextWarningStyle
	case "stopped":
		return TextSecondaryStyle
	default:
		return TextStyle
	}
}

// CenterHorizontal centers content in width cells.
func CenterHorizontal(width int, content string) string {
	if lipgloss.Width(content) >= width {
		return content
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// Initialize sets up the design system
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
