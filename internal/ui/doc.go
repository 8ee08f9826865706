// Package ui holds the lipgloss palette used for terminal headings and status lines.
//
// Styles degrade to plain text when output is not a terminal, so rendered strings are safe to pipe.
package ui
