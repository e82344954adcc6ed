package ui

// ANSI accessors for the current palette. They return empty strings when
// colors are disabled, so callers can interpolate them unconditionally.

// ColorReset returns the sequence that clears all formatting.
func ColorReset() string { return CurrentPalette().Reset }

// ColorRed marks failures.
func ColorRed() string { return CurrentPalette().Fail }

// ColorGreen marks success.
func ColorGreen() string { return CurrentPalette().OK }

// ColorYellow marks warnings and durations.
func ColorYellow() string { return CurrentPalette().Warn }

// ColorBlue marks counts.
func ColorBlue() string { return CurrentPalette().Count }

// ColorMagenta marks the bound.
func ColorMagenta() string { return CurrentPalette().Bound }

// ColorCyan marks tuning details.
func ColorCyan() string { return CurrentPalette().Detail }

// ColorBold returns the bold sequence.
func ColorBold() string { return CurrentPalette().Bold }

// ColorUnderline returns the underline sequence.
func ColorUnderline() string { return CurrentPalette().Underline }
