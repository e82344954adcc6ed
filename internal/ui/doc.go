// Package ui holds the color palettes shared by the text output and the TUI
// dashboard. The palette is process-wide and chosen once by InitTheme.
package ui
