package calibration

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/ui"
)

const sweepLabelWidth = 12

// writeSweep prints one parameter sweep, one line per tried value, and tags
// the fastest successful trial.
func writeSweep(out io.Writer, param string, trials []calibrationResult, best calibrationResult, label func(calibrationResult) string) {
	fmt.Fprintf(out, "\n--- Calibration: %s ---\n", param)
	fmt.Fprintf(out, "  %s%s%s │ %sTime%s\n",
		ui.ColorUnderline(), padTo(param, sweepLabelWidth), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(out, "  %s┼%s\n", strings.Repeat("─", sweepLabelWidth+1), strings.Repeat("─", 24))
	for _, t := range trials {
		fmt.Fprintf(out, "  %s%s%s │ %s\n",
			ui.ColorCyan(), padTo(label(t), sweepLabelWidth), ui.ColorReset(), trialTime(t, best))
	}
}

func trialTime(t, best calibrationResult) string {
	switch {
	case t.Err != nil:
		return ui.ColorRed() + "N/A" + ui.ColorReset()
	case t.SegmentSize == best.SegmentSize && t.Workers == best.Workers:
		return ui.ColorYellow() + sweepDuration(t) + ui.ColorReset() + " " + ui.ColorGreen() + "(Optimal)" + ui.ColorReset()
	default:
		return ui.ColorYellow() + sweepDuration(t) + ui.ColorReset()
	}
}

func sweepDuration(t calibrationResult) string {
	if t.Duration == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(t.Duration)
}

func padTo(s string, width int) string {
	return s + strings.Repeat(" ", max(width-utf8.RuneCountInString(s), 0))
}

// writeChoice prints the tuning a calibration settled on.
func writeChoice(out io.Writer, profile *CalibrationProfile) {
	y, r := ui.ColorYellow(), ui.ColorReset()
	fmt.Fprintf(out, "%sCalibration%s: segment=%s%s%s, workers=%s%d%s (%s)\n",
		ui.ColorGreen(), r,
		y, format.FormatBytes(profile.OptimalSegmentSize), r,
		y, profile.OptimalWorkers, r,
		profile.CalibrationTime)
}
