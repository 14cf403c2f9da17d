package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, width, height int, encode func(buf *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizePNG(t *testing.T) {
	raw := testImage(t, 640, 480, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	normalized, err := Normalize(raw)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(normalized))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, AvatarWidth, decoded.Bounds().Dx())
	assert.Equal(t, AvatarHeight, decoded.Bounds().Dy())
}

func TestNormalizeJPEG(t *testing.T) {
	raw := testImage(t, 100, 300, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})

	normalized, err := Normalize(raw)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(normalized))
	require.NoError(t, err)
	// Output is always PNG regardless of the input format.
	assert.Equal(t, "png", format)
	assert.Equal(t, AvatarWidth, decoded.Bounds().Dx())
	assert.Equal(t, AvatarHeight, decoded.Bounds().Dy())
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
