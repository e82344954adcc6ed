package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

func TestScratchArena_AcquireRelease(t *testing.T) {
	t.Parallel()
	a := NewScratchArena(0)

	s, err := a.Acquire(128)
	require.NoError(t, err)
	assert.Len(t, s.Bytes(), 128)
	assert.EqualValues(t, 128, a.InUse())

	s.Release()
	assert.Nil(t, s.Bytes())
	assert.EqualValues(t, 0, a.InUse())
	assert.EqualValues(t, 128, a.Peak())

	// Double release must not corrupt accounting.
	s.Release()
	assert.EqualValues(t, 0, a.InUse())
}

func TestScratchArena_ReusesParkedBuffers(t *testing.T) {
	t.Parallel()
	a := NewScratchArena(0)

	s1, err := a.Acquire(256)
	require.NoError(t, err)
	first := &s1.Bytes()[0]
	s1.Release()

	s2, err := a.Acquire(100)
	require.NoError(t, err)
	defer s2.Release()
	assert.Len(t, s2.Bytes(), 100)
	assert.Same(t, first, &s2.Bytes()[0], "smaller request should reuse the parked buffer")
}

func TestScratchArena_NoAliasingWhileCheckedOut(t *testing.T) {
	t.Parallel()
	a := NewScratchArena(0)

	s1, err := a.Acquire(64)
	require.NoError(t, err)
	s2, err := a.Acquire(64)
	require.NoError(t, err)
	assert.NotSame(t, &s1.Bytes()[0], &s2.Bytes()[0])
	s1.Release()
	s2.Release()
}

func TestScratchArena_BudgetExceeded(t *testing.T) {
	t.Parallel()
	a := NewScratchArena(100)

	s, err := a.Acquire(60)
	require.NoError(t, err)

	_, err = a.Acquire(60)
	require.Error(t, err)
	var memErr apperrors.MemoryError
	require.True(t, errors.As(err, &memErr))
	assert.EqualValues(t, 60, memErr.Requested)
	assert.EqualValues(t, 40, memErr.Available)
	assert.EqualValues(t, 100, memErr.Limit)

	s.Release()
	s2, err := a.Acquire(60)
	require.NoError(t, err, "budget should be available again after release")
	s2.Release()
}

func TestScratchArena_Concurrent(t *testing.T) {
	t.Parallel()
	a := NewScratchArena(0)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, err := a.Acquire(512)
				if err != nil {
					t.Error(err)
					return
				}
				buf := s.Bytes()
				for k := range buf {
					buf[k] = byte(id)
				}
				for k := range buf {
					if buf[k] != byte(id) {
						t.Errorf("buffer shared between holders")
						break
					}
				}
				s.Release()
			}
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 0, a.InUse())
}
