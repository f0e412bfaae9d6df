// Package imaging normalizes listing photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxUploadSize is the largest photo accepted, in bytes.
const MaxUploadSize = 5 << 20

// Default output settings.
const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
)

// ErrUnsupported is returned for anything that is not a JPEG or PNG.
var ErrUnsupported = errors.New("unsupported photo format")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Options control the output photo.
type Options struct {
	MaxDimension int
	Quality      int
}

// Photo is a processed, JPEG encoded photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process sniffs the real format (client headers are not trusted), scales the
// photo down to fit MaxDimension and re-encodes it as JPEG. Transparent
// areas are flattened onto white.
func Process(r io.Reader, opts Options) (*Photo, error) {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("photo larger than %d bytes", MaxUploadSize)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupported, detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	out := fit(src, opts.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := out.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit returns an opaque copy of img no larger than maxDim on either side,
// preserving the aspect ratio. Smaller images keep their size.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > maxDim || h > maxDim {
		if w > h {
			newW = maxDim
			newH = h * maxDim / w
		} else {
			newH = maxDim
			newW = w * maxDim / h
		}
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if newW == w && newH == h {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	}
	return dst
}
