// Package theme defines color themes for the budgetify explorer and forms.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and the status bar
	SurfaceHover lipgloss.Color // active tab, selected run
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused form field
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Bands for scores and spending shares, from good to bad.
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Orange lipgloss.Color
	Red    lipgloss.Color
	Cyan   lipgloss.Color // small shares
}

// Ledger is the default theme: dark green-grey, money green accent.
var Ledger = Theme{
	Name:         "ledger",
	Background:   lipgloss.Color("#0F1412"),
	Surface:      lipgloss.Color("#18201C"),
	SurfaceHover: lipgloss.Color("#223029"),
	Border:       lipgloss.Color("#2E3D35"),
	BorderAccent: lipgloss.Color("#4FB286"),
	TextDim:      lipgloss.Color("#4E5F56"),
	TextMuted:    lipgloss.Color("#8A9A90"),
	TextPrimary:  lipgloss.Color("#EEF4EF"),
	Accent:       lipgloss.Color("#4FB286"),
	AccentBright: lipgloss.Color("#7FD3A8"),
	Green:        lipgloss.Color("#7FB24F"),
	Yellow:       lipgloss.Color("#D9B44A"),
	Orange:       lipgloss.Color("#E08A3C"),
	Red:          lipgloss.Color("#D9574A"),
	Cyan:         lipgloss.Color("#4AA8C0"),
}

// Flexoki matches the colors of the plain CLI reports.
var Flexoki = Theme{
	Name:         "flexoki",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Yellow:       lipgloss.Color("#D0A215"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
	Cyan:         lipgloss.Color("#24837B"),
}

// Terminal uses the 16 ANSI colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("2"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("2"),
	AccentBright: lipgloss.Color("10"),
	Green:        lipgloss.Color("2"),
	Yellow:       lipgloss.Color("11"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	Cyan:         lipgloss.Color("6"),
}

// Active is the currently selected theme.
var Active = Ledger

// All available themes, default first.
var All = []Theme{Ledger, Flexoki, Terminal}

// ByName returns a theme by its name, defaulting to Ledger.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Ledger
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names returns the names of all themes in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ScoreColor maps an R² score to a band color.
func (t Theme) ScoreColor(r2 float64) lipgloss.Color {
	switch {
	case r2 >= 0.8:
		return t.Green
	case r2 >= 0.5:
		return t.Yellow
	case r2 >= 0:
		return t.Orange
	default:
		return t.Red
	}
}

// ShareColor maps a share of income (0-1) to a band color. Large shares
// are the warm end.
func (t Theme) ShareColor(share float64) lipgloss.Color {
	switch {
	case share >= 0.3:
		return t.Red
	case share >= 0.15:
		return t.Orange
	case share >= 0.05:
		return t.Accent
	default:
		return t.Cyan
	}
}
