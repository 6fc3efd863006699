// Package ui holds the terminal presentation of the generator: colors,
// headless detection, progress feedback and the markdown end summary.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig selects the theme variant.
type ThemeConfig struct {
	NoColor bool   // plain output, e.g. NO_COLOR set or output redirected
	Mode    string // "dark" or "light"; empty means dark
}

// Colors are the hex colors of a theme.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme is the styling shared by every UI component.
type Theme struct {
	NoColor bool
	Mode    string
	Colors  Colors

	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

var darkColors = Colors{
	Primary:   "#3E8ACC",
	Secondary: "#7FB2E0",
	Success:   "#10B981",
	Warning:   "#F59E0B",
	Error:     "#EF4444",
	Muted:     "#6B7280",
}

var lightColors = Colors{
	Primary:   "#1F5F99",
	Secondary: "#2C5F8A",
	Success:   "#059669",
	Warning:   "#B45309",
	Error:     "#DC2626",
	Muted:     "#4B5563",
}

// NewTheme builds a Theme from cfg.
func NewTheme(cfg ThemeConfig) *Theme {
	t := &Theme{NoColor: cfg.NoColor, Mode: cfg.Mode, Colors: darkColors}
	if t.Mode == "" {
		t.Mode = "dark"
	}
	if t.Mode == "light" {
		t.Colors = lightColors
	}

	if t.NoColor {
		plain := lipgloss.NewStyle()
		t.Title, t.Success, t.Warning, t.Error, t.Muted = plain.Bold(true), plain, plain, plain, plain
		return t
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Primary))
	t.Success = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Success))
	t.Warning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Warning))
	t.Error = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Error))
	t.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Muted))
	return t
}

// NoColorFromEnv reports whether the NO_COLOR convention asks for plain output.
func NoColorFromEnv() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

// Banner returns the welcome banner printed by the initialize phase.
func (t *Theme) Banner(version string) string {
	box := lipgloss.NewStyle().Padding(0, 2)
	if !t.NoColor {
		box = box.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t.Colors.Primary))
	}
	body := t.Title.Render("JHipster Multitenancy") + "\n" +
		"Welcome to the JHipster multitenancy generator " + t.Muted.Render(version)
	return box.Render(body)
}
