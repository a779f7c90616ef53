package utils

import (
	"bytes"
	"image/jpeg"

	"github.com/jdeng/goheif"
)

// Browsers cannot render HEIC/HEIF, so those payloads are re-encoded as JPEG
// before storage. All other formats pass through untouched.

const jpegQuality = 85

var constrainedImageExts = map[string]bool{
	"heic": true,
	"heif": true,
}

// NormalizeImage converts a HEIC/HEIF payload to a quality-85 JPEG and rewrites
// the extension to jpg. Conversion is best-effort: any decode or encode failure
// returns the original bytes and extension unchanged so the upload can proceed.
func NormalizeImage(content []byte, ext string) ([]byte, string) {
	if !constrainedImageExts[ext] {
		return content, ext
	}

	img, err := goheif.Decode(bytes.NewReader(content))
	if err != nil {
		if Sugar != nil {
			Sugar.Warnf("heic decode failed, keeping original payload: %v", err)
		}
		return content, ext
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		if Sugar != nil {
			Sugar.Warnf("jpeg encode failed, keeping original payload: %v", err)
		}
		return content, ext
	}
	return buf.Bytes(), "jpg"
}
