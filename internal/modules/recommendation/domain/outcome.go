package domain

import "strings"

const (
	// NotFoundMessage 推薦が得られなかった場合の固定メッセージ
	NotFoundMessage = "No encontré productos. Por favor describe mejor lo que necesitas."
	// UnavailableMessage 推論APIに到達できない場合の固定メッセージ
	UnavailableMessage = "El servicio de recomendaciones no está disponible temporalmente."
	// NotFoundMarker 画像生成をスキップする目印
	NotFoundMarker = "No encontré"
)

// Outcome 推薦結果（正常または劣化）
type Outcome struct {
	Text     string
	Degraded bool
	Cause    ErrorKind
}

// OK 正常な推薦結果を作成
func OK(text string) Outcome {
	return Outcome{Text: text, Cause: KindNone}
}

// Degraded 劣化した推薦結果を作成（利用者向けの文言は原因から決まる）
func Degraded(cause ErrorKind) Outcome {
	text := NotFoundMessage
	switch cause {
	case KindTimeout, KindTransport, KindCircuitOpen:
		text = UnavailableMessage
	}
	return Outcome{Text: text, Degraded: true, Cause: cause}
}

// DegradedFromError エラーから劣化結果を作成
func DegradedFromError(err error) Outcome {
	return Degraded(ClassifyError(err))
}

// WantsImage 画像生成に進むべきか判定
func (o Outcome) WantsImage() bool {
	if o.Degraded || strings.TrimSpace(o.Text) == "" {
		return false
	}
	return !strings.Contains(o.Text, NotFoundMarker)
}

// ProductName 推薦テキストから商品名（最初のコロンより前）を取り出す
func (o Outcome) ProductName() string {
	name, _, _ := strings.Cut(o.Text, ":")
	return strings.TrimSpace(name)
}

// ImageOutcome 画像生成結果。Data が nil の場合は画像なし
type ImageOutcome struct {
	Data  []byte
	Cause ErrorKind
}

// ImageOK 正常な画像生成結果を作成
func ImageOK(data []byte) ImageOutcome {
	return ImageOutcome{Data: data, Cause: KindNone}
}

// ImageFailed 画像なしの結果を作成
func ImageFailed(cause ErrorKind) ImageOutcome {
	return ImageOutcome{Cause: cause}
}

// OK 画像が得られたか判定
func (o ImageOutcome) OK() bool {
	return len(o.Data) > 0
}
