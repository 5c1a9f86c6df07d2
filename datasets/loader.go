// Package datasets loads delimited numeric tables into gonum matrices.
//
// The expected layout is a header row followed by one row per sample, as in
// the prostate cancer data of Stamey et al.: an optional unnamed index
// column, numeric feature columns, a numeric target column and an optional
// train/test indicator column.
package datasets

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

// LoadConfig describes the table layout.
type LoadConfig struct {
	// Separator is the field delimiter. Zero means tab.
	Separator rune
	// Whitespace splits fields on runs of spaces and tabs and ignores
	// Separator.
	Whitespace bool
	// IndexColumn drops the first field of every row.
	IndexColumn bool
	// Target names the response column.
	Target string
	// TrainColumn optionally names a column of T/F, true/false or 1/0 flags
	// marking training rows.
	TrainColumn string
	// Features optionally restricts and orders the feature columns. Empty
	// means every remaining column in file order.
	Features []string
}

// Validate checks that the configuration can describe a table.
func (c LoadConfig) Validate() error {
	if c.Target == "" {
		return errors.NewValidationError("target", "is required", c.Target)
	}
	if c.Target == c.TrainColumn {
		return errors.NewValidationError("train_column", "must differ from target", c.TrainColumn)
	}
	if !c.Whitespace {
		switch c.Separator {
		case '\n', '\r', '"':
			return errors.NewValidationError("separator", "must not be a newline or quote", string(c.Separator))
		}
	}
	for _, f := range c.Features {
		if f == c.Target || (c.TrainColumn != "" && f == c.TrainColumn) {
			return errors.NewValidationError("features", "must not contain the target or train column", f)
		}
	}
	return nil
}

// Dataset is a loaded table.
type Dataset struct {
	X            *mat.Dense
	Y            *mat.VecDense
	FeatureNames []string
	// Train is nil when the table has no train column.
	Train []bool
}

// Rows returns the number of samples.
func (d *Dataset) Rows() int {
	return d.Y.Len()
}

// Split returns the rows flagged as training and the remaining rows.
func (d *Dataset) Split() (train, test *Dataset, err error) {
	if d.Train == nil {
		return nil, nil, errors.NewValueError("Dataset.Split", "dataset has no train column")
	}

	var trainIdx, testIdx []int
	for i, isTrain := range d.Train {
		if isTrain {
			trainIdx = append(trainIdx, i)
		} else {
			testIdx = append(testIdx, i)
		}
	}
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, errors.NewValueError("Dataset.Split", "train column leaves an empty train or test set")
	}
	return d.Subset(trainIdx), d.Subset(testIdx), nil
}

// Subset copies the listed rows into a new Dataset.
func (d *Dataset) Subset(idx []int) *Dataset {
	_, p := d.X.Dims()
	X := mat.NewDense(len(idx), p, nil)
	Y := mat.NewVecDense(len(idx), nil)
	var train []bool
	if d.Train != nil {
		train = make([]bool, len(idx))
	}
	for i, k := range idx {
		X.SetRow(i, d.X.RawRowView(k))
		Y.SetVec(i, d.Y.AtVec(k))
		if train != nil {
			train[i] = d.Train[k]
		}
	}
	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: append([]string(nil), d.FeatureNames...),
		Train:        train,
	}
}

// LoadFile opens path and calls LoadDelimited.
func LoadFile(path string, cfg LoadConfig) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	ds, err := LoadDelimited(f, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return ds, nil
}

// LoadDelimited reads a header row and numeric data rows from r.
func LoadDelimited(r io.Reader, cfg LoadConfig) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	records, err := readRecords(r, cfg)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.NewModelError("datasets.LoadDelimited", "no data rows", errors.ErrEmptyData)
	}

	header := records[0]
	width := len(records[1])
	if cfg.IndexColumn {
		// インデックス列の見出しは空欄のことも省略されていることもある
		if len(header) == width {
			header = header[1:]
		}
		width--
	}
	if len(header) != width {
		return nil, errors.NewDimensionError("datasets.LoadDelimited header", width, len(header), 1)
	}

	cols := make(map[string]int, len(header))
	for j, name := range header {
		cols[strings.TrimSpace(name)] = j
	}

	target, ok := cols[cfg.Target]
	if !ok {
		return nil, errors.NewValidationError("target", "column not found in header", cfg.Target)
	}
	trainCol := -1
	if cfg.TrainColumn != "" {
		if trainCol, ok = cols[cfg.TrainColumn]; !ok {
			return nil, errors.NewValidationError("train_column", "column not found in header", cfg.TrainColumn)
		}
	}

	var featureCols []int
	var featureNames []string
	if len(cfg.Features) > 0 {
		for _, name := range cfg.Features {
			j, ok := cols[name]
			if !ok {
				return nil, errors.NewValidationError("features", "column not found in header", name)
			}
			featureCols = append(featureCols, j)
			featureNames = append(featureNames, name)
		}
	} else {
		for j, name := range header {
			if j == target || j == trainCol {
				continue
			}
			featureCols = append(featureCols, j)
			featureNames = append(featureNames, strings.TrimSpace(name))
		}
	}
	if len(featureCols) == 0 {
		return nil, errors.NewValueError("datasets.LoadDelimited", "no feature columns")
	}

	rows := records[1:]
	X := mat.NewDense(len(rows), len(featureCols), nil)
	Y := mat.NewVecDense(len(rows), nil)
	var train []bool
	if trainCol >= 0 {
		train = make([]bool, len(rows))
	}

	for i, rec := range rows {
		line := i + 2
		if cfg.IndexColumn {
			if len(rec) == 0 {
				return nil, errors.NewValueError("datasets.LoadDelimited", fmt.Sprintf("line %d: empty row", line))
			}
			rec = rec[1:]
		}
		if len(rec) != width {
			return nil, errors.NewDimensionError(fmt.Sprintf("datasets.LoadDelimited line %d", line), width, len(rec), 1)
		}

		for k, j := range featureCols {
			v, err := parseFloat(rec[j])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %q", line, featureNames[k])
			}
			X.Set(i, k, v)
		}

		v, err := parseFloat(rec[target])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d, column %q", line, cfg.Target)
		}
		Y.SetVec(i, v)

		if train != nil {
			b, err := parseFlag(rec[trainCol])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %q", line, cfg.TrainColumn)
			}
			train[i] = b
		}
	}

	return &Dataset{X: X, Y: Y, FeatureNames: featureNames, Train: train}, nil
}

func readRecords(r io.Reader, cfg LoadConfig) ([][]string, error) {
	if cfg.Whitespace {
		var records [][]string
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			records = append(records, fields)
		}
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "read table")
		}
		return records, nil
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.Separator
	if reader.Comma == 0 {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read table")
	}
	return records, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.NewValueError("datasets.parseFloat", fmt.Sprintf("invalid number %q", s))
	}
	return v, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1":
		return true, nil
	case "f", "false", "0":
		return false, nil
	default:
		return false, errors.NewValueError("datasets.parseFlag", fmt.Sprintf("invalid train flag %q", s))
	}
}
