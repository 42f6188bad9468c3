// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// scikit-learnの警告・例外システムにインスパイアされており、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("cart-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// zerologの警告関数が設定されている場合はそちらが優先されます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// DegenerateTreeWarning は学習データに複数のクラスが含まれているにもかかわらず、
// 学習済みの木が単一の葉になった場合の警告です。
// max_depth=0 や大きすぎる min_samples_split で発生します。
type DegenerateTreeWarning struct {
	NClasses int
	NSamples int
	Reason   string
}

func (w *DegenerateTreeWarning) Error() string {
	return fmt.Sprintf("tree collapsed to a single leaf over %d samples with %d classes: %s",
		w.NSamples, w.NClasses, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DegenerateTreeWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("n_classes", w.NClasses).
		Int("n_samples", w.NSamples).
		Str("reason", w.Reason).
		Str("type", "DegenerateTreeWarning")
}

// NewDegenerateTreeWarning は新しいDegenerateTreeWarningを作成します。
func NewDegenerateTreeWarning(nClasses, nSamples int, reason string) *DegenerateTreeWarning {
	return &DegenerateTreeWarning{NClasses: nClasses, NSamples: nSamples, Reason: reason}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cart: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("cart: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// `ValueError`よりも具体的なバリデーションロジックの失敗を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cart: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cart: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cart: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// InvalidDatasetError はデータセットが空、行幅が不揃い、または非有限値を含む場合のエラーです。
// 木の構築が始まる前に検出されます。Row が -1 の場合はデータセット全体の問題です。
type InvalidDatasetError struct {
	Op     string
	Row    int
	Reason string
}

func (e *InvalidDatasetError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("cart: %s: invalid dataset: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("cart: %s: invalid dataset at row %d: %s", e.Op, e.Row, e.Reason)
}

// Unwrap は ErrInvalidDataset を返し、errors.Is での判定を可能にします。
func (e *InvalidDatasetError) Unwrap() error {
	return ErrInvalidDataset
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidDatasetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "InvalidDatasetError")
}

// NewInvalidDatasetError は新しいInvalidDatasetErrorを作成し、スタックトレースを付与します。
func NewInvalidDatasetError(op string, row int, reason string) error {
	err := &InvalidDatasetError{Op: op, Row: row, Reason: reason}
	return errors.WithStack(err)
}

// OutOfRangeError は予測時の特徴ベクトルが木の参照する特徴量インデックスを
// 含まない場合のエラーです。切り詰めやパディングは行いません。
type OutOfRangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cart: %s: feature index %d out of range for vector of length %d", e.Op, e.Index, e.Len)
}

// Unwrap は ErrOutOfRange を返し、errors.Is での判定を可能にします。
func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *OutOfRangeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Int("len", e.Len).
		Str("type", "OutOfRangeError")
}

// NewOutOfRangeError は新しいOutOfRangeErrorを作成し、スタックトレースを付与します。
func NewOutOfRangeError(op string, index, length int) error {
	err := &OutOfRangeError{Op: op, Index: index, Len: length}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// GetStacktrace はcockroachdb/errorsが記録したスタックトレースを文字列で返します。
// 記録がない場合は空文字列を返します。
func GetStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrInvalidDataset はデータセットの形式が不正な場合のエラーです。
	ErrInvalidDataset = New("invalid dataset")

	// ErrOutOfRange は特徴ベクトルの長さが不足している場合のエラーです。
	ErrOutOfRange = New("feature index out of range")
)
