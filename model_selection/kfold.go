// Package model_selection partitions data and chooses the number of PLS
// directions by cross-validation.
//
// Nothing here depends on the pls package; estimators are reached through
// core/model.ComponentFitter.
package model_selection

import (
	"math/rand/v2"
	"sort"

	"github.com/abkoesdw/esl/pkg/errors"
)

// Splitter partitions n sample indices into cross-validation folds.
type Splitter interface {
	Split(n int) ([]Fold, error)
	GetNSplits() int
}

// Fold represents a single fold in cross-validation
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. Every index appears in
// exactly one test set, and test set sizes differ by at most one. With
// Shuffle the assignment is a deterministic function of RandomSeed.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.NSplits)
	}
	if n < kf.NSplits {
		return nil, errors.NewValueError("KFold.Split",
			"cannot have number of splits greater than the number of samples")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.RandomSeed, kf.RandomSeed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	inTest := make([]bool, n)
	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		test := append([]int(nil), indices[current:current+testSize]...)
		sort.Ints(test)

		for j := range inTest {
			inTest[j] = false
		}
		for _, idx := range test {
			inTest[idx] = true
		}
		train := make([]int, 0, n-testSize)
		for j := 0; j < n; j++ {
			if !inTest[j] {
				train = append(train, j)
			}
		}

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}

	return folds, nil
}
