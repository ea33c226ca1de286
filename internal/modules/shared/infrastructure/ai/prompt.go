package ai

import (
	"fmt"
	"strings"
)

// AnswerMarker 生成テキスト中の回答開始位置を示す目印
const AnswerMarker = "Assistant:"

const (
	// recommendationPromptTemplate 商品推薦用プロンプト
	recommendationPromptTemplate = `Eres un experto en recomendaciones de productos para estudiantes universitarios.
Responde ÚNICAMENTE con el formato: "Nombre del producto: breve descripción (máximo 8 palabras)"

Ejemplo: "Cuaderno profesional: 200 hojas con espiral metálico"

User: %s
` + AnswerMarker

	// imagePromptTemplate 商品写真生成用プロンプト
	imagePromptTemplate = "Fotografía profesional de %s, fondo blanco, estilo e-commerce, alta calidad, 4k"
)

// BuildRecommendationPrompt 説明文を埋め込んだ推薦プロンプトを作成
func BuildRecommendationPrompt(description string) string {
	return fmt.Sprintf(recommendationPromptTemplate, description)
}

// BuildImagePrompt 商品名を埋め込んだ画像プロンプトを作成
func BuildImagePrompt(productName string) string {
	return fmt.Sprintf(imagePromptTemplate, productName)
}

// ExtractAnswer 生成テキストから回答部分を取り出す
//
// 最後の AnswerMarker より後ろを回答とし、前後の空白と引用符を除去する。
func ExtractAnswer(generated string) string {
	answer := generated
	if idx := strings.LastIndex(generated, AnswerMarker); idx != -1 {
		answer = generated[idx+len(AnswerMarker):]
	}
	answer = strings.TrimSpace(answer)
	answer = strings.Trim(answer, "\"'“”")
	return strings.TrimSpace(answer)
}
