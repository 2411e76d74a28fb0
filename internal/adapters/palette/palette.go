// Package palette finds the dominant colour of an image.
package palette

import (
	"bytes"
	"errors"
	"fishbot/internal/core/domain"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const DefaultMaxDimension = 256

var errNoColors = errors.New("no prominent colours found")

type Extractor struct {
	maxDimension int
}

func NewExtractor(maxDimension int) *Extractor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	return &Extractor{maxDimension: maxDimension}
}

// DominantColor decodes a JPEG, PNG or WebP image and returns the colour of its largest k-means cluster.
func (e *Extractor) DominantColor(data []byte) (domain.Color, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.DefaultColor, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}

	img = downscale(img, e.maxDimension)

	items, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return domain.DefaultColor, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}

	if len(items) == 0 {
		return domain.DefaultColor, fmt.Errorf("%w: %w", domain.ErrInvalidImage, errNoColors)
	}

	best := items[0]
	for _, item := range items[1:] {
		if item.Cnt > best.Cnt {
			best = item
		}
	}

	color := domain.Color{R: channel(best.Color.R), G: channel(best.Color.G), B: channel(best.Color.B)}

	log.Debug().Str("format", format).Str("color", color.Hex()).Msg("extracted dominant color")

	return color, nil
}

// downscale bounds the longest side of img to maxDim, keeping the aspect ratio.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if width >= height {
		newH = max(1, height*maxDim/width)
	} else {
		newW = max(1, width*maxDim/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst
}

func channel(v uint32) uint8 {
	return uint8(min(v, 255))
}
