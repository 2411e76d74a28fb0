package palette

import (
	"bytes"
	"fishbot/internal/core/domain"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coverImage is mostly red with a blue band and a small yellow corner.
func coverImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			jitter := uint8((x + y) % 7)
			switch {
			case y < height/4:
				img.Set(x, y, color.RGBA{R: 20 + jitter, G: 40, B: 200 - jitter, A: 255})
			case x > width*7/8 && y > height*7/8:
				img.Set(x, y, color.RGBA{R: 230, G: 210 - jitter, B: 30, A: 255})
			default:
				img.Set(x, y, color.RGBA{R: 200 - jitter, G: 30 + jitter, B: 40, A: 255})
			}
		}
	}

	return img
}

func encode(t *testing.T, img image.Image, format string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	switch format {
	case "png":
		require.NoError(t, png.Encode(buf, img))
	default:
		require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: 95}))
	}

	return buf.Bytes()
}

func TestExtractor_DominantColor(t *testing.T) {
	tests := []struct {
		name   string
		data   func(t *testing.T) []byte
		maxDim int
	}{
		{
			name:   "png",
			data:   func(t *testing.T) []byte { return encode(t, coverImage(120, 80), "png") },
			maxDim: DefaultMaxDimension,
		},
		{
			name:   "jpeg",
			data:   func(t *testing.T) []byte { return encode(t, coverImage(120, 80), "jpeg") },
			maxDim: DefaultMaxDimension,
		},
		{
			name:   "large image is downscaled",
			data:   func(t *testing.T) []byte { return encode(t, coverImage(900, 250), "jpeg") },
			maxDim: 128,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewExtractor(tc.maxDim).DominantColor(tc.data(t))
			require.NoError(t, err)

			assert.InDelta(t, 197, int(got.R), 25)
			assert.InDelta(t, 33, int(got.G), 25)
			assert.InDelta(t, 40, int(got.B), 25)
		})
	}
}

func TestExtractor_DominantColorInvalidImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not an image", data: []byte("osu file format v14")},
		{name: "truncated png", data: []byte("\x89PNG\r\n\x1a\n")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewExtractor(0).DominantColor(tc.data)
			assert.ErrorIs(t, err, domain.ErrInvalidImage)
			assert.Equal(t, domain.DefaultColor, got)
		})
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxDim        int
		wantW, wantH  int
	}{
		{name: "small image untouched", width: 100, height: 50, maxDim: 256, wantW: 100, wantH: 50},
		{name: "wide image", width: 1000, height: 250, maxDim: 200, wantW: 200, wantH: 50},
		{name: "tall image", width: 250, height: 1000, maxDim: 200, wantW: 50, wantH: 200},
		{name: "thin image keeps one pixel", width: 5000, height: 1, maxDim: 100, wantW: 100, wantH: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tc.width, tc.height))
			got := downscale(img, tc.maxDim).Bounds()
			assert.Equal(t, tc.wantW, got.Dx())
			assert.Equal(t, tc.wantH, got.Dy())
		})
	}
}
