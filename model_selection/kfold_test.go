package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkoesdw/esl/pkg/errors"
)

func TestKFold_Partition(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		nSplits int
		shuffle bool
	}{
		{"even", 20, 5, false},
		{"uneven", 23, 5, false},
		{"shuffled", 67, 10, true},
		{"leave one out", 7, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kf := NewKFold(tt.nSplits, tt.shuffle, 42)
			folds, err := kf.Split(tt.n)
			require.NoError(t, err)
			require.Len(t, folds, tt.nSplits)

			seen := make([]int, tt.n)
			minSize, maxSize := tt.n, 0
			for _, f := range folds {
				assert.Equal(t, tt.n, len(f.TrainIndices)+len(f.TestIndices))
				for _, idx := range f.TestIndices {
					seen[idx]++
				}

				inTest := make(map[int]bool, len(f.TestIndices))
				for _, idx := range f.TestIndices {
					inTest[idx] = true
				}
				for _, idx := range f.TrainIndices {
					assert.False(t, inTest[idx], "index %d in both train and test", idx)
				}

				minSize = min(minSize, len(f.TestIndices))
				maxSize = max(maxSize, len(f.TestIndices))
			}

			for idx, count := range seen {
				assert.Equal(t, 1, count, "index %d", idx)
			}
			assert.LessOrEqual(t, maxSize-minSize, 1)
		})
	}
}

func TestKFold_Deterministic(t *testing.T) {
	a, err := NewKFold(5, true, 7).Split(50)
	require.NoError(t, err)
	b, err := NewKFold(5, true, 7).Split(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKFold(5, true, 8).Split(50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	// シャッフルなしでは連続したブロックになる
	d, err := NewKFold(3, false, 0).Split(6)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, d[0].TestIndices)
	assert.Equal(t, []int{2, 3, 4, 5}, d[0].TrainIndices)
	assert.Equal(t, []int{4, 5}, d[2].TestIndices)
}

func TestKFold_Errors(t *testing.T) {
	_, err := NewKFold(5, false, 0).Split(3)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	_, err = (&KFold{NSplits: 1}).Split(10)
	var validation *errors.ValidationError
	assert.True(t, errors.As(err, &validation))

	assert.Equal(t, 5, NewKFold(0, false, 0).GetNSplits())
}
