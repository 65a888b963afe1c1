// Package render turns a game state snapshot into the terminal view.
// View is pure: the same inputs always produce the same text.
package render

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
)

const (
	heart       = "❤"
	barWidth    = 10
	barFilled   = "#"
	barEmpty    = "-"
	markPlot    = "> "
	markCrop    = "* "
	markNone    = "  "
	unknownText = "Unknown"
)

const (
	headerStatus   = "=== Farm Status ==="
	headerFarm     = "=== Your Farm ==="
	headerCrops    = "=== Available Crops ==="
	headerMessages = "=== Messages ==="

	msgWaiting   = "Waiting for game state..."
	msgNoCrops   = "No crops unlocked"
	plotEmpty    = "Empty"
	plotLineFmt  = "%sPlot %d: %s"
	cropLineFmt  = "%s%s: $%s (Growth: %ss, Value: $%s)"
	plotCropFmt  = "%s [%s] %d%%"
	staminaFmt   = "Stamina: %s (%s/%s)"
	messageLnFmt = "- %s"
)

// View renders the full screen: status, farm, crop catalog and messages.
// A nil state renders a waiting line followed by any messages.
func View(state *domain.ClientGameState, sel farmsync.Selection, messages []notify.Message) string {
	var sb strings.Builder

	if state == nil {
		sb.WriteString(msgWaiting)
		sb.WriteString("\n")
	} else {
		writeStatus(&sb, state)
		writeFarm(&sb, state.Plots, sel)
		writeCrops(&sb, state.Crops, sel)
	}
	writeMessages(&sb, messages)

	return sb.String()
}

func writeStatus(sb *strings.Builder, state *domain.ClientGameState) {
	section(sb, headerStatus, []string{
		fmt.Sprintf("Day: %d", state.Day),
		"Time: " + Capitalize(string(state.Time)),
		"Weather: " + Capitalize(state.Weather),
		"Money: $" + domain.FormatAmount(state.Player.Money),
		fmt.Sprintf(staminaFmt, Hearts(state.Player.Stamina),
			domain.FormatAmount(state.Player.Stamina), domain.FormatAmount(state.Player.MaxStamina)),
	})
}

func writeFarm(sb *strings.Builder, plots []domain.Plot, sel farmsync.Selection) {
	lines := make([]string, 0, len(plots))
	for i, plot := range plots {
		mark := markNone
		if sel.HasPlot() && sel.PlotIndex() == i {
			mark = markPlot
		}
		lines = append(lines, fmt.Sprintf(plotLineFmt, mark, i+1, PlotStatus(plot)))
	}
	section(sb, headerFarm, lines)
}

func writeCrops(sb *strings.Builder, crops []domain.CropDefinition, sel farmsync.Selection) {
	if len(crops) == 0 {
		section(sb, headerCrops, []string{msgNoCrops})
		return
	}
	lines := make([]string, 0, len(crops))
	for _, crop := range crops {
		mark := markNone
		if sel.HasCrop() && strings.EqualFold(sel.CropName(), crop.Name) {
			mark = markCrop
		}
		lines = append(lines, fmt.Sprintf(cropLineFmt, mark, crop.Name,
			domain.FormatAmount(crop.Cost), domain.FormatAmount(crop.GrowthTime), domain.FormatAmount(crop.Value)))
	}
	section(sb, headerCrops, lines)
}

func writeMessages(sb *strings.Builder, messages []notify.Message) {
	if len(messages) == 0 {
		return
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf(messageLnFmt, m.Text))
	}
	section(sb, headerMessages, lines)
}

func section(sb *strings.Builder, header string, lines []string) {
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("=", len(header)))
	sb.WriteString("\n\n")
}

// PlotStatus is "Empty" for a plot without a crop, otherwise the crop name,
// a progress bar and the whole percentage.
func PlotStatus(p domain.Plot) string {
	if p.IsEmpty() {
		return plotEmpty
	}
	pct := p.ProgressPercent()
	return fmt.Sprintf(plotCropFmt, p.Crop.Name, Bar(pct), pct)
}

// Bar draws a fixed-width bar for a 0-100 percentage
func Bar(percent int) string {
	filled := percent * barWidth / 100
	filled = max(0, min(barWidth, filled))
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barWidth-filled)
}

// Hearts draws floor(stamina) hearts
func Hearts(stamina float64) string {
	n := int(math.Floor(stamina))
	if n <= 0 {
		return ""
	}
	return strings.Repeat(heart, n)
}

// Capitalize title-cases a server word such as "morning" or "partly_cloudy"
func Capitalize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return unknownText
	}
	// A Caser keeps state between calls, so each call gets its own
	return cases.Title(language.English).String(s)
}
