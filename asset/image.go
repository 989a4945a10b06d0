// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrImageFormat is returned for texture files that are not
// in a supported image format.
var ErrImageFormat = errors.New("asset: unsupported image format")

// Formats are the supported texture file formats.
type Formats int32

// The supported texture file formats
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

var formatNames = [...]string{"none", "png", "jpeg", "gif", "tiff", "bmp", "webp"}

func (f Formats) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Formats(%d)", int32(f))
}

// mimeToFormat maps sniffed MIME types to formats.
var mimeToFormat = map[string]Formats{
	"image/png":  PNG,
	"image/jpeg": JPEG,
	"image/gif":  GIF,
	"image/tiff": TIFF,
	"image/bmp":  BMP,
	"image/webp": WebP,
}

// SniffFormat returns the format of the image data from its
// leading bytes, regardless of file name.
func SniffFormat(head []byte) (Formats, error) {
	kind, err := filetype.Image(head)
	if err != nil || kind == filetype.Unknown {
		return None, ErrImageFormat
	}
	f, ok := mimeToFormat[kind.MIME.Value]
	if !ok {
		return None, fmt.Errorf("%w: %s", ErrImageFormat, kind.MIME.Value)
	}
	return f, nil
}

// Decode decodes the image data in the given format.
func Decode(r io.Reader, f Formats) (image.Image, error) {
	switch f {
	case PNG:
		return png.Decode(r)
	case JPEG:
		return jpeg.Decode(r)
	case GIF:
		return gif.Decode(r)
	case TIFF:
		return tiff.Decode(r)
	case BMP:
		return bmp.Decode(r)
	case WebP:
		return webp.Decode(r)
	}
	return nil, ErrImageFormat
}

// Read reads an image, sniffing its format from the content.
func Read(b []byte) (image.Image, Formats, error) {
	f, err := SniffFormat(b)
	if err != nil {
		return nil, None, err
	}
	img, err := Decode(bytes.NewReader(b), f)
	return img, f, err
}

// OpenImage opens the texture image file at path.
// png, jpeg, gif, tiff, bmp, and webp are supported.
func OpenImage(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, f, err := Read(b)
	if err != nil {
		return nil, fmt.Errorf("asset: texture %q (%s): %w", path, f, err)
	}
	return img, nil
}
