package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/time/rate"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/ui"
)

// Progress display settings.
const (
	ProgressRefreshRate = 200 * time.Millisecond
	ProgressBarWidth    = 40
)

// Spinner is the part of a terminal spinner the progress display drives.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// lockedSpinner takes the spinner's lock around suffix writes, which race
// with its render goroutine.
type lockedSpinner struct {
	*spinner.Spinner
}

func (s lockedSpinner) UpdateSuffix(suffix string) {
	s.Lock()
	s.Suffix = suffix
	s.Unlock()
}

// newSpinner is replaced in tests.
var newSpinner = func(options ...spinner.Option) Spinner {
	return lockedSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress shows a spinner with the aggregated progress bar and ETA of
// numRuns runs on out until progressChan is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	spin := newSpinner(spinner.WithWriter(out))
	label := "Sieving"
	if agg.IsMultiRun() {
		label = fmt.Sprintf("Sieving (%d runs)", agg.NumRuns())
	}
	show := func(avg float64, eta time.Duration) {
		spin.UpdateSuffix(fmt.Sprintf(" %s%s%s %s", ui.ColorCyan(), label, ui.ColorReset(),
			format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
	}
	show(0, 0)
	spin.Start()
	defer spin.Stop()

	// Updates redraw at most once per refresh period; the ticker keeps the
	// ETA moving while a large segment is being sieved.
	limiter := rate.NewLimiter(rate.Every(ProgressRefreshRate), 1)
	tick := time.NewTicker(ProgressRefreshRate)
	defer tick.Stop()

	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				show(1, 0)
				return
			}
			p := agg.Update(u)
			if limiter.Allow() {
				show(p.AverageProgress, p.ETA)
			}
		case <-tick.C:
			show(agg.CalculateAverage(), agg.GetETA())
		}
	}
}
