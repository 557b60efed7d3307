// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Teal    = lipgloss.Color("#14B8A6")
	Ash     = lipgloss.Color("#6B7280")
	Snow    = lipgloss.Color("#FAFAFA")
	Coal    = lipgloss.Color("#111827")
	Emerald = lipgloss.Color("#10B981")
	Crimson = lipgloss.Color("#DC2626")
	Amber   = lipgloss.Color("#D97706")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Header renders section headers in the show output.
var Header = lipgloss.NewStyle().Bold(true).Foreground(Teal)

// Muted renders secondary information such as file provenance.
var Muted = lipgloss.NewStyle().Foreground(Ash)
