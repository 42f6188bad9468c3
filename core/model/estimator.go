package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier は分類器のインターフェース
type Classifier interface {
	Fitter
	Predictor

	// PredictProba は各クラスの確率を予測する（列はClassesの順）
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Score は平均正解率を返す
	Score(X, y mat.Matrix) float64

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []int
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はハイパーパラメータを返す
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータを変更可能なモデルのインターフェース
type ParameterSetter interface {
	// SetParams はハイパーパラメータを設定する
	SetParams(params map[string]interface{}) error
}
