package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"sort"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned by Encode for a format nobody registered.
var ErrUnknownFormat = errors.New("canvas: unknown image format")

// Encoder writes an image in one file format.
type Encoder func(w io.Writer, img image.Image) error

var (
	encodersMu sync.RWMutex
	encoders   = make(map[string]Encoder)
)

func init() {
	RegisterEncoder("png", png.Encode)
	RegisterEncoder("jpeg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	})
	RegisterEncoder("bmp", bmp.Encode)
	RegisterEncoder("tiff", func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	})
}

// RegisterEncoder makes an image format available to Encode, following
// the database/sql driver pattern. It panics if enc is nil or the name is
// already registered.
func RegisterEncoder(name string, enc Encoder) {
	encodersMu.Lock()
	defer encodersMu.Unlock()

	if enc == nil {
		panic("canvas: RegisterEncoder encoder is nil")
	}
	if _, dup := encoders[name]; dup {
		panic("canvas: RegisterEncoder called twice for " + name)
	}
	encoders[name] = enc
}

// UnregisterEncoder removes a format. Unknown names are ignored.
func UnregisterEncoder(name string) {
	encodersMu.Lock()
	defer encodersMu.Unlock()
	delete(encoders, name)
}

// Encoders returns the registered format names in sorted order.
func Encoders() []string {
	encodersMu.RLock()
	defer encodersMu.RUnlock()

	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodeImage writes img to w in the named format.
func EncodeImage(w io.Writer, format string, img image.Image) error {
	encodersMu.RLock()
	enc, ok := encoders[format]
	encodersMu.RUnlock()

	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return enc(w, img)
}

// Encode writes the surface pixels to w in the named format.
func (s *Surface) Encode(w io.Writer, format string) error {
	return EncodeImage(w, format, s.Image())
}
