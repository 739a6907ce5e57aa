package threadpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCoversEveryRowExactlyOnce(t *testing.T) {
	p := New(4)
	const rows = 37
	var seen [rows]int32

	p.Run(rows, func(_ int, tile Tile) {
		tile.Rows2(func(row int) {
			atomic.AddInt32(&seen[row], 1)
		})
	})

	for row, count := range seen {
		require.Equal(t, int32(1), count, "row %d visited %d times", row, count)
	}
}

func TestRunClampsWorkersToRowCount(t *testing.T) {
	p := New(16)
	var mu sync.Mutex
	var workerIDs []int
	p.Run(3, func(workerID int, _ Tile) {
		mu.Lock()
		workerIDs = append(workerIDs, workerID)
		mu.Unlock()
	})
	assert.LessOrEqual(t, len(workerIDs), 3)
}

func TestRunPairsVisitsAllIndices(t *testing.T) {
	p := New(0)
	assert.Greater(t, p.Workers(), 0)

	const n = 50
	var seen [n]int32
	p.RunPairs(n, func(_ int, i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, count := range seen {
		require.Equal(t, int32(1), count, "index %d visited %d times", i, count)
	}
}

func TestRunOnZeroRowsIsNoop(t *testing.T) {
	p := New(4)
	called := false
	p.Run(0, func(_ int, _ Tile) { called = true })
	assert.False(t, called)
}
