package memory

import (
	"errors"
	"sync"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

// ErrReleased is returned when a scratch handle is used after Release.
var ErrReleased = errors.New("scratch buffer already released")

// ScratchArena hands out segment scratch buffers under an optional byte
// budget. A buffer is checked out with Acquire, owned by exactly one worker
// until Release, and then parked for reuse by a later Acquire. Two holders
// never see the same backing array at the same time.
//
// The zero value is an unlimited arena ready for use.
type ScratchArena struct {
	mu     sync.Mutex
	limit  uint64
	inUse  uint64
	peak   uint64
	parked [][]byte
}

// NewScratchArena creates an arena that refuses to have more than limit bytes
// checked out at once. A limit of zero means unlimited.
func NewScratchArena(limit uint64) *ScratchArena {
	return &ScratchArena{limit: limit}
}

// Scratch is a checked-out buffer. It must be released by its holder.
type Scratch struct {
	arena *ScratchArena
	buf   []byte
}

// Acquire checks out a buffer of at least size bytes. It fails with a
// MemoryError when the checkout would push the arena over its budget.
func (a *ScratchArena) Acquire(size int) (*Scratch, error) {
	if size < 0 {
		size = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	need := uint64(size)
	if a.limit > 0 && a.inUse+need > a.limit {
		return nil, apperrors.MemoryError{
			Requested: need,
			Available: a.limit - a.inUse,
			Limit:     a.limit,
		}
	}

	var buf []byte
	for i := len(a.parked) - 1; i >= 0; i-- {
		if cap(a.parked[i]) >= size {
			buf = a.parked[i][:size]
			a.parked = append(a.parked[:i], a.parked[i+1:]...)
			break
		}
	}
	if buf == nil {
		buf = make([]byte, size)
	}

	a.inUse += need
	if a.inUse > a.peak {
		a.peak = a.inUse
	}
	return &Scratch{arena: a, buf: buf}, nil
}

// Bytes returns the buffer. It returns nil after Release.
func (s *Scratch) Bytes() []byte {
	return s.buf
}

// Release returns the buffer to its arena. Releasing twice is a no-op.
func (s *Scratch) Release() {
	if s == nil || s.buf == nil {
		return
	}
	a := s.arena
	a.mu.Lock()
	a.inUse -= uint64(len(s.buf))
	a.parked = append(a.parked, s.buf[:cap(s.buf)])
	a.mu.Unlock()
	s.buf = nil
}

// InUse returns the number of bytes currently checked out.
func (a *ScratchArena) InUse() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Peak returns the high-water mark of checked-out bytes.
func (a *ScratchArena) Peak() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peak
}

// Limit returns the configured budget, zero meaning unlimited.
func (a *ScratchArena) Limit() uint64 { return a.limit }
