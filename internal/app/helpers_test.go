package app

import "github.com/agbru/primecalc/internal/config"

func newTestConfig(n uint64, verify bool) config.AppConfig {
	return config.AppConfig{N: n, NSet: true, Verify: verify, Workers: 4, SegmentSize: 100_000}
}
