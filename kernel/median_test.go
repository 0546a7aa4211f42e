// SPDX-License-Identifier: MIT

package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorekit/scorekit/kernel"
)

func TestMedianHeuristicOddPairCount(t *testing.T) {
	// Distances on a line: |0−1|=1, |0−3|=3, |1−3|=2. Sorted {1,2,3} → 2.
	pts := []kernel.Point{{0}, {1}, {3}}
	got, err := kernel.MedianHeuristic(pts)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-15)
}

func TestMedianHeuristicEvenPairCount(t *testing.T) {
	// Distances: {1,2,4,1,3,2} → sorted {1,1,2,2,3,4} → (2+2)/2 = 2.
	pts := []kernel.Point{{0}, {1}, {2}, {4}}
	got, err := kernel.MedianHeuristic(pts)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-15)
}

func TestMedianHeuristicMultiDim(t *testing.T) {
	// Pairwise distances: 3-4-5 triangle → sorted {3,4,5} → 4.
	pts := []kernel.Point{{0, 0}, {3, 0}, {3, 4}}
	got, err := kernel.MedianHeuristic(pts)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-15)
}

func TestMedianHeuristicErrors(t *testing.T) {
	_, err := kernel.MedianHeuristic(nil)
	assert.ErrorIs(t, err, kernel.ErrEmptySet)

	_, err = kernel.MedianHeuristic([]kernel.Point{{1, 2}})
	assert.ErrorIs(t, err, kernel.ErrEmptySet)

	_, err = kernel.MedianHeuristic([]kernel.Point{{1, 2}, {3}})
	assert.ErrorIs(t, err, kernel.ErrDimensionMismatch)
}
