package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background, box borders
	Surface    string // Header and command bar
	FocusBg    string // Inside the focused box

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Per-metric label colors, keyed by metric name (keys, clicks, ...)
	MetricColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	metricColors map[string]string
	muted        string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:        fg(t.Warning).Bold(true),

		metricColors: t.MetricColors,
		muted:        t.Muted,
	}
}

// MetricStyle returns the label style for a metric, falling back to muted.
func (s Styles) MetricStyle(metric string) lipgloss.Style {
	color := s.metricColors[metric]
	if color == "" {
		color = s.muted
	}
	return fg(color).Bold(true)
}

// WithBackground returns a copy of Styles with every style painted on
// bgColor, so styled segments never fall back to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, style := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo,
	} {
		*style = style.Background(bg)
	}
	return s
}

// palette is the raw color set a Theme is built from.
type palette struct {
	bg, surface, focus  string
	border, borderFocus string
	text, muted, faint  string
	blue, violet, green string
	yellow, orange, red string
	cyan                string
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:        name,
		Background:  p.bg,
		Surface:     p.surface,
		FocusBg:     p.focus,
		Border:      p.border,
		BorderFocus: p.borderFocus,
		Text:        p.text,
		Muted:       p.muted,
		Faint:       p.faint,
		Accent:      p.blue,
		Success:     p.green,
		Warning:     p.yellow,
		Danger:      p.red,
		Info:        p.cyan,
		MetricColors: map[string]string{
			"keys":     p.blue,
			"clicks":   p.violet,
			"download": p.green,
			"upload":   p.orange,
			"uptime":   p.cyan,
		},
	}
}

// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
var nightfox = palette{
	bg: "#131a24", surface: "#192330", focus: "#29394f",
	border: "#39506d", borderFocus: "#719cd6",
	text: "#cdcecf", muted: "#738091", faint: "#71839b",
	blue: "#719cd6", violet: "#9d79d6", green: "#81b29a",
	yellow: "#dbc074", orange: "#f4a261", red: "#c94f6d",
	cyan: "#63cdcf",
}

// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
var kanagawa = palette{
	bg: "#16161D", surface: "#1F1F28", focus: "#2A2A37",
	border: "#54546D", borderFocus: "#7E9CD8",
	text: "#DCD7BA", muted: "#C8C093", faint: "#727169",
	blue: "#7E9CD8", violet: "#957FB8", green: "#98BB6C",
	yellow: "#E6C384", orange: "#FFA066", red: "#E46876",
	cyan: "#7FB4CA",
}

// Tailwind CSS slate/sky: https://tailwindcss.com/docs/colors
var slate = palette{
	bg: "#020617", surface: "#0f172a", focus: "#283548",
	border: "#334155", borderFocus: "#38bdf8",
	text: "#f1f5f9", muted: "#94a3b8", faint: "#64748b",
	blue: "#38bdf8", violet: "#a78bfa", green: "#22c55e",
	yellow: "#f59e0b", orange: "#fb923c", red: "#ef4444",
	cyan: "#06b6d4",
}

var themes = map[string]Theme{
	"Nightfox": nightfox.theme("Nightfox"),
	"Kanagawa": kanagawa.theme("Kanagawa"),
	"Slate":    slate.theme("Slate"),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name, defaulting to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
