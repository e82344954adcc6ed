// This file chooses which segment sizes and worker counts to benchmark,
// based on the hardware.

package calibration

import (
	"runtime"

	"github.com/agbru/primecalc/internal/config"
)

// GenerateSegmentSizes returns the segment widths to benchmark, ascending.
//
// A segment of width w needs w/2 bytes of scratch per worker, so the list
// walks from well inside L1 to well past L2. 32-bit targets skip the
// largest widths.
func GenerateSegmentSizes() []uint64 {
	sizes := []uint64{32_768, 65_536, 131_072, 262_144, 524_288, 1_000_000}
	if 32<<(^uint(0)>>63) == 64 {
		sizes = append(sizes, 2_000_000, 4_000_000)
	}
	return sizes
}

// GenerateQuickSegmentSizes is the reduced set used by a quick calibration.
func GenerateQuickSegmentSizes() []uint64 {
	return []uint64{131_072, 262_144, 1_000_000}
}

// GenerateWorkerCounts returns the worker counts to benchmark: powers of two
// up to the CPU count, plus the CPU count itself.
func GenerateWorkerCounts() []int {
	numCPU := runtime.NumCPU()
	counts := []int{1}
	for w := 2; w < numCPU; w *= 2 {
		counts = append(counts, w)
	}
	if numCPU > 1 {
		counts = append(counts, numCPU)
	}
	return counts
}

// EstimateOptimalSegmentSize delegates to config.EstimateOptimalSegmentSize.
func EstimateOptimalSegmentSize() uint64 { return config.EstimateOptimalSegmentSize() }

// EstimateOptimalWorkers delegates to config.EstimateOptimalWorkers.
func EstimateOptimalWorkers() int { return config.EstimateOptimalWorkers() }
