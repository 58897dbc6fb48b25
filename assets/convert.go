// Package assets downloads repository binaries listed by a harvest and
// normalizes them to JPEG for upload. Decoding understands JPEG, PNG, TIFF
// and BMP; anything else is kept verbatim.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const jpegQuality = 85

// ToJPEG decodes an image and re-encodes it as JPEG. The input bytes are
// returned unchanged when no registered decoder recognizes the format, so a
// non-image binary still round-trips through the pipeline.
func ToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertFileToJPEG reads the file at path and returns JPEG bytes. Files
// already carrying a .jpg/.jpeg extension pass through untouched.
func ConvertFileToJPEG(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return data, nil
	}
	return ToJPEG(data)
}
