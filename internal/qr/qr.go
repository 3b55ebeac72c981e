// Package qr renders QR codes as PNG images.
package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinSize     = 128
	MaxSize     = 1024
	DefaultSize = 300
)

// ClampSize bounds a requested pixel size; zero or negative means default.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

func PNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, ClampSize(size))
}

// DataURI returns the PNG inlined as a data: URI for embedding in pages.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
