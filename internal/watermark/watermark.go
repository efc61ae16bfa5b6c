package watermark

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	// шаг и толщина диагональных полос
	bandStep  = 64
	bandWidth = 6

	thumbnailWidth = 256

	jpegQuality = 85
)

// Apply накладывает на изображение полупрозрачные диагональные полосы
// и возвращает результат в JPEG. Размеры исходника сохраняются.
func Apply(src []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	overlay := image.NewNRGBA(b)
	band := color.NRGBA{R: 255, G: 255, B: 255, A: 110}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (x+y)%bandStep < bandWidth {
				overlay.SetNRGBA(x, y, band)
			}
		}
	}

	out := imaging.Overlay(img, overlay, image.Pt(b.Min.X, b.Min.Y), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail уменьшает изображение до ширины 256px с сохранением пропорций.
func Thumbnail(src []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
