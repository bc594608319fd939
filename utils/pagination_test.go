package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 5, TotalPages(101, 25))
	assert.Equal(t, 4, TotalPages(100, 25))
	assert.Equal(t, 1, TotalPages(1, 25))
	assert.Equal(t, 0, TotalPages(0, 25))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestPageSkip(t *testing.T) {
	assert.Equal(t, 0, PageSkip(1, 25))
	assert.Equal(t, 25, PageSkip(2, 25))
	assert.Equal(t, 180, PageSkip(10, 20))
}

func TestPartitionWindowEvenSplit(t *testing.T) {
	windows := PartitionWindow(0, 100, 4)

	assert.Len(t, windows, 4)
	assert.Equal(t, Window{Skip: 0, Limit: 25}, windows[0])
	assert.Equal(t, Window{Skip: 25, Limit: 25}, windows[1])
	assert.Equal(t, Window{Skip: 50, Limit: 25}, windows[2])
	assert.Equal(t, Window{Skip: 75, Limit: 25}, windows[3])
}

func TestPartitionWindowRemainderGoesLast(t *testing.T) {
	windows := PartitionWindow(50, 10, 4)

	assert.Equal(t, Window{Skip: 50, Limit: 2}, windows[0])
	assert.Equal(t, Window{Skip: 52, Limit: 2}, windows[1])
	assert.Equal(t, Window{Skip: 54, Limit: 2}, windows[2])
	assert.Equal(t, Window{Skip: 56, Limit: 4}, windows[3])
}

func TestPartitionWindowSmallerThanPartitionCount(t *testing.T) {
	windows := PartitionWindow(0, 3, 4)

	assert.Equal(t, Window{Skip: 0, Limit: 0}, windows[0])
	assert.Equal(t, Window{Skip: 0, Limit: 0}, windows[1])
	assert.Equal(t, Window{Skip: 0, Limit: 0}, windows[2])
	assert.Equal(t, Window{Skip: 0, Limit: 3}, windows[3])
}

// the windows of any partitioning are disjoint, contiguous, and cover
// exactly the requested page
func TestPartitionWindowCoversPage(t *testing.T) {
	for _, size := range []int{1, 2, 3, 4, 25, 99, 100, 1000} {
		windows := PartitionWindow(40, size, 4)

		next := 40
		covered := 0
		for _, w := range windows {
			if w.Limit == 0 {
				continue
			}
			assert.Equal(t, next, w.Skip)
			next += w.Limit
			covered += w.Limit
		}
		assert.Equal(t, size, covered)
	}
}
