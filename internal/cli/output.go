// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplaySummary], [DisplayCount], [DisplayProgress].
//
//   - Write* functions serialize primes to a writer or a file.
//     Examples: [WritePrimes], [WriteResultToFile].
//
//   - Create* functions open output destinations.
//     Example: [CreateOutput].

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for standard output only).
	OutputFile string
	// Format is one of config.FormatText, FormatCount or FormatBitmap.
	Format string
	// Quiet mode prints only the prime count.
	Quiet bool
	// RunID identifies the run in file headers.
	RunID string
}

// WritePrimes serializes primes below n to w in the given format.
//
//   - text: "Primes less than n: 2, 3, ..." then "Total primes: k".
//   - count: the prime count on one line.
//   - bitmap: a portable 64-bit Roaring bitmap of the primes.
//
// An empty list in text format writes "No primes less than n".
func WritePrimes(w io.Writer, n uint64, primes []uint64, outputFormat string) error {
	switch outputFormat {
	case config.FormatCount:
		_, err := fmt.Fprintln(w, len(primes))
		return err
	case config.FormatBitmap:
		bm := roaring64.New()
		bm.AddMany(primes)
		bm.RunOptimize()
		_, err := bm.WriteTo(w)
		return err
	case config.FormatText, "":
		return writeText(w, n, primes)
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}

func writeText(w io.Writer, n uint64, primes []uint64) error {
	if len(primes) == 0 {
		_, err := fmt.Fprintf(w, "No primes less than %d\n", n)
		return err
	}
	bw := bufio.NewWriterSize(w, 64<<10)
	buf := make([]byte, 0, 24)
	fmt.Fprintf(bw, "Primes less than %d: ", n)
	for i, p := range primes {
		if i > 0 {
			bw.WriteString(", ")
		}
		buf = strconv.AppendUint(buf[:0], p, 10)
		bw.Write(buf)
	}
	fmt.Fprintf(bw, "\nTotal primes: %d\n", len(primes))
	return bw.Flush()
}

// ReadBitmap decodes a bitmap written by WritePrimes.
func ReadBitmap(r io.Reader) ([]uint64, error) {
	bm := roaring64.New()
	if _, err := bm.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to decode bitmap: %w", err)
	}
	return bm.ToArray(), nil
}

// multiCloser closes a compression layer and then the underlying file.
type multiCloser struct {
	io.Writer
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CreateOutput creates path, making parent directories as needed, and wraps
// it in a compressor chosen by extension: .gz (gzip), .zst (zstd) or .lz4.
// Closing the returned writer flushes the compressor and closes the file.
func CreateOutput(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zw := gzip.NewWriter(file)
		return &multiCloser{Writer: zw, closers: []io.Closer{zw, file}}, nil
	case ".zst":
		zw, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return &multiCloser{Writer: zw, closers: []io.Closer{zw, file}}, nil
	case ".lz4":
		zw := lz4.NewWriter(file)
		return &multiCloser{Writer: zw, closers: []io.Closer{zw, file}}, nil
	}
	return file, nil
}

// WriteResultToFile writes primes to config.OutputFile. Text and count
// formats get a commented header; bitmaps are written raw.
func WriteResultToFile(primes []uint64, n uint64, duration time.Duration, algo string, cfg OutputConfig) (err error) {
	if cfg.OutputFile == "" {
		return nil
	}
	w, err := CreateOutput(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if cfg.Format != config.FormatBitmap {
		fmt.Fprintf(w, "# Prime Generation Result\n")
		fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
		if cfg.RunID != "" {
			fmt.Fprintf(w, "# Run: %s\n", cfg.RunID)
		}
		fmt.Fprintf(w, "# Algorithm: %s\n", algo)
		fmt.Fprintf(w, "# Duration: %s\n", duration)
		fmt.Fprintf(w, "# N: %d\n", n)
		fmt.Fprintf(w, "\n")
	}
	return WritePrimes(w, n, primes, cfg.Format)
}

// DisplayCount outputs the prime count alone, for quiet mode.
func DisplayCount(out io.Writer, count int) {
	fmt.Fprintln(out, count)
}

// DisplayResultWithConfig prints a result to out according to cfg and saves
// it to the output file when one is configured. With a file configured,
// standard output only receives the count.
func DisplayResultWithConfig(out io.Writer, primes []uint64, n uint64, duration time.Duration, algo string, cfg OutputConfig) error {
	switch {
	case cfg.Quiet:
		DisplayCount(out, len(primes))
	case cfg.OutputFile != "":
		fmt.Fprintf(out, "Total primes: %d\n", len(primes))
	default:
		if err := WritePrimes(out, n, primes, cfg.Format); err != nil {
			return err
		}
	}

	if cfg.OutputFile != "" {
		if err := WriteResultToFile(primes, n, duration, algo, cfg); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
		}
	}
	return nil
}

// DisplaySummary prints the closing line with the largest prime and the
// throughput of the run.
func DisplaySummary(out io.Writer, n uint64, primes []uint64, duration time.Duration) {
	if len(primes) == 0 {
		fmt.Fprintf(out, "Done! No primes less than %d (%s).\n", n, format.FormatExecutionDuration(duration))
		return
	}
	rate := float64(len(primes))
	if secs := duration.Seconds(); secs > 0 {
		rate /= secs
	}
	fmt.Fprintf(out, "%sDone!%s Largest prime < %d is %s%d%s. Generated %s primes in %.3fs (%s primes/s).\n",
		ui.ColorGreen(), ui.ColorReset(), n,
		ui.ColorBold(), primes[len(primes)-1], ui.ColorReset(),
		format.FormatNumber(uint64(len(primes))), duration.Seconds(),
		format.FormatNumber(uint64(rate)))
}

// DisplayResultSummary prints the count and largest prime of a result.
func DisplayResultSummary(out io.Writer, n uint64, result orchestration.RunResult) {
	largest, ok := result.Largest()
	if !ok {
		fmt.Fprintf(out, "No primes less than %d\n", n)
		return
	}
	fmt.Fprintf(out, "Primes less than %d: %s%s%s (largest %s%d%s, by %s).\n",
		n, ui.ColorBold(), format.FormatNumber(uint64(result.Count())), ui.ColorReset(),
		ui.ColorMagenta(), largest, ui.ColorReset(), result.Name)
}

// DisplayParallelWarning warns that --parallel has no effect below the
// parallel threshold.
func DisplayParallelWarning(out io.Writer, n, threshold uint64) {
	fmt.Fprintf(out, "%s[WARN]%s --parallel ignored: n=%d is below threshold %d\n",
		ui.ColorYellow(), ui.ColorReset(), n, threshold)
}
