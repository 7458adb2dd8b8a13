package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleHighlight marks values the user typed or should notice.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorCmd).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleCacheHit    = lipgloss.NewStyle().Foreground(colorOK)
)

// =============================================================================
// Status Output
// =============================================================================

func status(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status("✓", styleIconSuccess, format, args...) }
func printError(format string, args ...any)   { status("✗", styleIconError, format, args...) }
func printInfo(format string, args ...any)    { status("›", styleIconInfo, format, args...) }

// printWarning renders the whole line in the warning color, not just the icon.
func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats
// =============================================================================

// graphStats summarizes one pipeline stage for the user. cache is "" when the
// stage never consults the cache.
type graphStats struct {
	nodes, edges, overlays int
	cache                  string
}

const (
	stateCached = "cached"
	stateFresh  = "fresh"
)

func cacheState(hit bool) string {
	if hit {
		return stateCached
	}
	return stateFresh
}

// String renders e.g. "12 nodes · 7 edges · 2 overlays · cached". Zero
// counts are left out.
func (s graphStats) String() string {
	var parts []string
	add := func(n int, unit string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+unit)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
		}
	}
	add(s.nodes, "node")
	add(s.edges, "edge")
	add(s.overlays, "overlay")
	if s.cache != "" {
		parts = append(parts, s.cache)
	}
	return strings.Join(parts, " · ")
}

func printStats(s graphStats) {
	line := StyleDim.Render(s.String())
	if s.cache == stateCached {
		line = strings.Replace(s.String(), stateCached, styleCacheHit.Render(stateCached), 1)
	}
	fmt.Println("  " + line)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep suggests the command that continues the pipeline.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
