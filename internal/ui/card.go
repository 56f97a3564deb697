package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/state"
	"github.com/litescript/ls-nightsky/internal/version"
)

const cardInnerWidth = 38

var (
	cardBackground = lipgloss.Color("#0F172A")
	cardBorder     = lipgloss.Color("#7B2CBF")

	// Blue -> purple -> magenta -> pink
	titleGradient = raster.NewGradient(
		raster.Stop{Pos: 0, Color: mustHex("#3B82F6")},
		raster.Stop{Pos: 0.33, Color: mustHex("#8B5CF6")},
		raster.Stop{Pos: 0.66, Color: mustHex("#D946EF")},
		raster.Stop{Pos: 1, Color: mustHex("#EC4899")},
	)
)

// renderCard renders the content card shown above the backdrop.
func renderCard(snap state.Snapshot, animTick int) string {
	base := lipgloss.NewStyle().Background(cardBackground)
	dim := base.Foreground(lipgloss.Color("60"))
	text := base.Foreground(lipgloss.Color("#CBD5E1"))
	accent := base.Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	lines := []string{
		renderGradientText(base, "✦ ls-nightsky ✦"),
		dim.Render("v" + version.Version),
		"",
		text.Render(fmt.Sprintf("%d stars", snap.Stars)) +
			dim.Render("  ·  ") +
			accent.Render(fmt.Sprintf("☄ %d", snap.Meteors)) +
			text.Render(" in flight"),
		text.Render(fmt.Sprintf("%d meteors seen", snap.Spawned)),
		dim.Render(fmt.Sprintf("tick %d · %.1f fps · %s", snap.Ticks, snap.FPS, formatUptime(snap.Uptime))),
		"",
		renderShimmerText(base, "q: quit", animTick),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cardBorder).
		BorderBackground(cardBackground).
		Background(cardBackground).
		Padding(0, 2).
		Width(cardInnerWidth).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderGradientText colors each rune by its position in the title gradient.
func renderGradientText(base lipgloss.Style, text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := base.Foreground(lipgloss.Color(titleGradient.At(t).Hex())).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// renderShimmerText renders text with a soft highlight sweeping across it.
func renderShimmerText(base lipgloss.Style, text string, tick int) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Slow the sweep down relative to the frame rate.
	pos := (tick / 6) % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var hexColor string
		switch {
		case dist <= 1:
			hexColor = "#B4A0DC"
		case dist <= 3:
			hexColor = "#8C78B4"
		case dist <= 5:
			hexColor = "#6E5A96"
		default:
			hexColor = "#504678"
		}
		result.WriteString(base.Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}
	return result.String()
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d up", m, s)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
