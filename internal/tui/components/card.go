package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/utils"
)

// CardType selects how a StatusCard colours its value.
type CardType int

const (
	CardTypePlain CardType = iota
	CardTypeStatus
	CardTypeHealth
)

// StatusCard is a titled value with an optional subtitle. It holds no
// state of its own.
type StatusCard struct {
	Title    string
	Value    string
	Subtitle string
	Icon     string
	Type     CardType
	Width    int
}

// NewStatusCard creates a plain card.
func NewStatusCard(title, value string) *StatusCard {
	return &StatusCard{Title: title, Value: value, Width: design.MinCardWidth}
}

// WithSubtitle sets the line under the value
func (c *StatusCard) WithSubtitle(subtitle string) *StatusCard {
	c.Subtitle = subtitle
	return c
}

// WithIcon sets the icon shown before the title
func (c *StatusCard) WithIcon(icon string) *StatusCard {
	c.Icon = icon
	return c
}

// WithType sets the card type
func (c *StatusCard) WithType(t CardType) *StatusCard {
	c.Type = t
	return c
}

// WithWidth sets the outer width
func (c *StatusCard) WithWidth(width int) *StatusCard {
	c.Width = width
	return c
}

// Render returns the styled card.
func (c *StatusCard) Render() string {
	width := max(c.Width, design.MinCardWidth)
	style := design.CardStyle
	inner := width - style.GetHorizontalFrameSize()

	title := c.Title
	if c.Icon != "" {
		title = c.Icon + " " + title
	}
	value := c.Value
	if value == "" {
		value = "—"
	}

	lines := []string{
		design.SubtitleStyle.Render(utils.TruncateString(title, inner)),
		c.valueStyle().Render(utils.TruncateString(value, inner)),
	}
	if c.Subtitle != "" {
		lines = append(lines, design.DimStyle.Render(utils.TruncateString(c.Subtitle, inner)))
	} else {
		lines = append(lines, "")
	}
	return style.Width(width - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func (c *StatusCard) valueStyle() lipgloss.Style {
	base := design.TitleStyle
	switch c.Type {
	case CardTypeStatus:
		return base.Foreground(design.GetStateStyle(strings.ToLower(c.Value)).GetForeground())
	case CardTypeHealth:
		if c.Value == "Healthy" {
			return base.Foreground(design.ColorSuccess)
		}
		return base.Foreground(design.ColorWarning)
	default:
		return base
	}
}

// CardRow lays cards out side by side, sharing width evenly.
func CardRow(width int, cards ...*StatusCard) string {
	if len(cards) == 0 {
		return ""
	}
	each := max(width/len(cards), design.MinCardWidth)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.WithWidth(each).Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
