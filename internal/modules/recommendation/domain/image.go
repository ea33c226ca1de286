package domain

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG形式のサポート
	_ "image/png"  // PNG形式のサポート
)

// MaxImageBytes 生成画像の上限サイズ
const MaxImageBytes = 10 * 1024 * 1024

// ImageFormat 生成画像の形式を判定（png / jpeg 以外はエラー）
func ImageFormat(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}

	if len(data) > MaxImageBytes {
		return "", errors.New("image size exceeds 10MB")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("invalid image format: %w", err)
	}

	switch format {
	case "png", "jpeg":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
