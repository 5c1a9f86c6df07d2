package model

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/abkoesdw/esl/pkg/errors"
)

// ScalingParams は学習時の標準化パラメータ（特徴量ごとの平均と標準偏差）
type ScalingParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（PLSRegression, LinearRegression等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Scaling は入力の標準化パラメータ（オプション）
	Scaling *ScalingParams `json:"scaling,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return mw.Validate()
}

// WriteTo はModelWeightsをJSONとしてwに書き出す
func (mw *ModelWeights) WriteTo(w io.Writer) (int64, error) {
	data, err := mw.ToJSON()
	if err != nil {
		return 0, errors.Wrap(err, "encode model weights")
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// ReadModelWeights はrからJSONを読み込み検証済みのModelWeightsを返す
func ReadModelWeights(r io.Reader) (*ModelWeights, error) {
	var mw ModelWeights
	if err := json.NewDecoder(r).Decode(&mw); err != nil {
		return nil, errors.Wrap(err, "decode model weights")
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return &mw, nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}

	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}

	if !mw.IsFitted {
		if len(mw.Coefficients) > 0 {
			return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
		}
		return nil
	}

	// 学習済みモデルは p >= 1 の係数を持つ
	if len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}

	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.NewDimensionError("ModelWeights.Validate", len(mw.Coefficients), len(mw.Features), 1)
	}

	if mw.Scaling != nil {
		p := len(mw.Coefficients)
		if len(mw.Scaling.Mean) != p {
			return errors.NewDimensionError("ModelWeights.Validate", p, len(mw.Scaling.Mean), 1)
		}
		if len(mw.Scaling.Scale) != p {
			return errors.NewDimensionError("ModelWeights.Validate", p, len(mw.Scaling.Scale), 1)
		}
	}

	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		IsFitted:        mw.IsFitted,
		Coefficients:    append([]float64(nil), mw.Coefficients...),
		Features:        append([]string(nil), mw.Features...),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	if mw.Scaling != nil {
		clone.Scaling = &ScalingParams{
			Mean:  append([]float64(nil), mw.Scaling.Mean...),
			Scale: append([]float64(nil), mw.Scaling.Scale...),
		}
	}

	return clone
}
