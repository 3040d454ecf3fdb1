// Package imaging shrinks uploaded photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxDimension = 1024
	DefaultJPEGQuality  = 85
	// DefaultMaxPixels caps the decoded canvas at roughly 160 MB of RGBA.
	DefaultMaxPixels = 40_000_000
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// ErrCorruptImage is returned when bytes sniff as JPEG or PNG but do not decode.
var ErrCorruptImage = errors.New("corrupt image")

// ErrImageTooLarge is returned when a photo declares more pixels than Options.MaxPixels.
var ErrImageTooLarge = errors.New("image dimensions too large")

// Options bound the output of Normalize. Zero values select the defaults.
type Options struct {
	MaxDimension int
	JPEGQuality  int
	MaxPixels    int
}

// Photo is normalised photo content.
type Photo struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// Sniff returns the content type detected from data.
func Sniff(data []byte) string {
	return http.DetectContentType(data)
}

// Normalize downscales JPEG and PNG photos so neither side exceeds the max dimension,
// keeping their format. Photos already within bounds keep their original bytes.
// Any other content is returned unchanged with its sniffed type.
func Normalize(data []byte, opt Options) (Photo, error) {
	if opt.MaxDimension <= 0 {
		opt.MaxDimension = DefaultMaxDimension
	}
	if opt.JPEGQuality <= 0 {
		opt.JPEGQuality = DefaultJPEGQuality
	}
	if opt.MaxPixels <= 0 {
		opt.MaxPixels = DefaultMaxPixels
	}

	mime := Sniff(data)
	if mime != MIMEJPEG && mime != MIMEPNG {
		return Photo{Data: data, ContentType: mime}, nil
	}

	// The header is checked before decoding, since a few KB of compressed input
	// can declare a canvas of gigabytes.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(opt.MaxPixels) {
		return Photo{}, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	b := img.Bounds()
	if b.Dx() <= opt.MaxDimension && b.Dy() <= opt.MaxDimension {
		return Photo{Data: data, ContentType: mime, Width: b.Dx(), Height: b.Dy()}, nil
	}

	scaled := downscale(img, opt.MaxDimension)

	var buf bytes.Buffer
	switch mime {
	case MIMEPNG:
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: opt.JPEGQuality})
	}
	if err != nil {
		return Photo{}, fmt.Errorf("encoding %s: %w", mime, err)
	}

	sb := scaled.Bounds()
	return Photo{
		Data:        buf.Bytes(),
		ContentType: mime,
		Width:       sb.Dx(),
		Height:      sb.Dy(),
		Resized:     true,
	}, nil
}

// downscale keeps the aspect ratio. Callers check the bounds first.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	newW, newH := maxDim, maxDim
	if w > h {
		newH = h * maxDim / w
	} else {
		newW = w * maxDim / h
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
