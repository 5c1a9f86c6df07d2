package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

// TrainTestSplit randomly assigns round(testFraction*n) of the indices
// [0, n) to the test set. Both returned slices are sorted.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", testFraction)
	}
	nTest := int(math.Round(testFraction * float64(n)))
	if nTest < 1 || nTest >= n {
		return nil, nil, errors.NewValueError("TrainTestSplit", "split leaves an empty train or test set")
	}

	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(n)

	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test, nil
}

// TakeRows copies the rows of X listed in idx, in that order.
func TakeRows(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	if len(idx) == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for i, k := range idx {
		mat.Row(row, k, X)
		out.SetRow(i, row)
	}
	return out
}

// TakeVec copies the entries of y listed in idx, in that order.
func TakeVec(y mat.Vector, idx []int) *mat.VecDense {
	if len(idx) == 0 {
		return &mat.VecDense{}
	}

	out := mat.NewVecDense(len(idx), nil)
	for i, k := range idx {
		out.SetVec(i, y.AtVec(k))
	}
	return out
}
