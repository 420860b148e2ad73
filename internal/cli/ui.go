package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mydungeon/pkg/palette"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorPurple = lipgloss.Color("141") // Lavender - joint moves
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// itemColors approximates the seven item colors in the terminal.
var itemColors = map[palette.Color]lipgloss.Color{
	palette.Red:         lipgloss.Color("160"),
	palette.Pink:        lipgloss.Color("211"),
	palette.Green:       lipgloss.Color("28"),
	palette.YellowGreen: lipgloss.Color("148"),
	palette.Blue:        lipgloss.Color("33"),
	palette.Aqua:        lipgloss.Color("87"),
	palette.Yellow:      lipgloss.Color("220"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	// Number highlights, strongest bucket first.
	styleJoint    = lipgloss.NewStyle().Bold(true).Foreground(colorPurple)
	styleBothHave = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleSynergy1 = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	styleSynergy2 = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleSolo     = lipgloss.NewStyle().Foreground(colorGray).Underline(true)
	styleActive   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Domain Formatting
// =============================================================================

// formatNumbers joins numbers, styling each with the first matching
// highlight. Unmatched numbers are dim.
func formatNumbers(numbers []int, highlights ...highlight) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		s := StyleDim
		for _, h := range highlights {
			if h.set[n] {
				s = h.style
				break
			}
		}
		parts[i] = s.Render(strconv.Itoa(n))
	}
	return strings.Join(parts, " ")
}

type highlight struct {
	set   map[int]bool
	style lipgloss.Style
}

func highlightOf(numbers []int, style lipgloss.Style) highlight {
	set := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return highlight{set: set, style: style}
}

// colorChip renders a color name in its own color.
func colorChip(c palette.Color) string {
	fg, ok := itemColors[c]
	if !ok {
		return StyleDim.Render(string(c))
	}
	return lipgloss.NewStyle().Foreground(fg).Render("■ " + string(c))
}
