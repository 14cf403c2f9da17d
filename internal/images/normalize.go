// Package images normalizes uploaded avatar images to a fixed-size PNG.
package images

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg" // register JPEG decoding
	"image/png"

	"golang.org/x/image/draw"
)

// Avatars are normalized to 250x250 so clients can render them at a fixed size.
const (
	AvatarWidth  = 250
	AvatarHeight = 250
)

var ErrUnsupportedImage = errors.New("unsupported image data")

// Normalize decodes a JPEG or PNG image, rescales it to the fixed avatar
// dimensions, and re-encodes it as PNG.
func Normalize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, AvatarWidth, AvatarHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
