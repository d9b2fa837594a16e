package tool

import (
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// RenderQRCode renders content as a PNG QR code, clamping size to sane
// bounds. Used to render share links locally without hitting the server
// /qrcode endpoint.
func RenderQRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
