package views

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads successive track hues evenly around the wheel.
const goldenAngle = 137.50776

// TrackColor is the colour of the i-th track in sequence order.
func TrackColor(i int) lipgloss.Color {
	c := colorful.Hsv(math.Mod(float64(i)*goldenAngle, 360), 0.55, 0.95)
	return lipgloss.Color(c.Hex())
}

func colorDot(i int) string {
	return lipgloss.NewStyle().Foreground(TrackColor(i)).Render("■")
}

// swatch shows hex as a small block. Invalid colours render as blanks.
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Clamped().Hex())).Render("██")
}
