// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package pvr implements the PowerVR PVR version 3 texture container, and
// its zlib wrapped PVRZ variant, for DXT1, DXT3 and DXT5 payloads.
//
// Only the first surface, face and depth slice of the largest mip-map level
// is decoded. Metadata is carried through but not interpreted.
package pvr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/nigeltao/dxt/lib/dxt"
)

// Magic is the byte string prefix of every PVR version 3 file.
const Magic = "PVR\x03"

func init() {
	image.RegisterFormat("pvr", Magic, Decode, DecodeConfig)
}

var (
	ErrBadArgument            = errors.New("pvr: bad argument")
	ErrMalformedHeader        = errors.New("pvr: malformed header")
	ErrNotAPVRZFile           = errors.New("pvr: not a PVRZ file")
	ErrUnsupportedPixelFormat = errors.New("pvr: unsupported pixel format")
)

// Texture is a parsed PVR file.
type Texture struct {
	Header *Header
	// Payload holds every byte after the header and its metadata.
	Payload []byte
}

// Open parses PVR or PVRZ data. The returned Texture's Payload aliases data
// when data is uncompressed.
func Open(data []byte) (*Texture, error) {
	if IsPVRZ(data) {
		inflated, err := Inflate(data)
		if err != nil {
			return nil, err
		}
		data = inflated
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	payload := data[h.Size():]
	if n := h.ImageSize(); len(payload) < n {
		return nil, fmt.Errorf("%w: payload has %d bytes, want at least %d", dxt.ErrBufferTooSmall, len(payload), n)
	}
	return &Texture{Header: h, Payload: payload}, nil
}

// Read reads all of r and parses it as PVR or PVRZ data.
func Read(r io.Reader) (*Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Open(data)
}

// DecodeRegion decodes the w×h pixel rectangle at (x, y) of the texture
// described by hdr. payload starts immediately after the header's metadata.
// The result holds w*h pixels in 0xAARRGGBB order, row-major.
func DecodeRegion(hdr *Header, payload []byte, x int, y int, w int, h int) ([]uint32, error) {
	if hdr == nil {
		return nil, ErrBadArgument
	} else if err := hdr.Validate(); err != nil {
		return nil, err
	}
	f, _ := hdr.Format()
	return dxt.DecodeRect(payload, int(hdr.Width), int(hdr.Height), f, x, y, w, h)
}

// DecodeRegion decodes the w×h pixel rectangle at (x, y).
func (t *Texture) DecodeRegion(x int, y int, w int, h int) ([]uint32, error) {
	return DecodeRegion(t.Header, t.Payload, x, y, w, h)
}

// Image decodes the whole texture.
func (t *Texture) Image() (*image.NRGBA, error) {
	width, height := int(t.Header.Width), int(t.Header.Height)
	pixels, err := t.DecodeRegion(0, 0, width, height)
	if err != nil {
		return nil, err
	}
	return dxt.ARGBToImage(pixels, width, height), nil
}

// DecodeConfig reads a PVR or PVRZ image configuration from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	prefix := [4]byte{}
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return image.Config{}, err
	}

	h := (*Header)(nil)
	if string(prefix[:]) == Magic {
		hdr, err := ReadHeader(io.MultiReader(bytes.NewReader(prefix[:]), r))
		if err != nil {
			return image.Config{}, err
		}
		h = hdr
	} else {
		// PVRZ has no magic. The header is only available after inflation.
		rest, err := io.ReadAll(r)
		if err != nil {
			return image.Config{}, err
		}
		t, err := Open(append(prefix[:], rest...))
		if err != nil {
			return image.Config{}, err
		}
		h = t.Header
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Decode reads a PVR or PVRZ image from r.
func Decode(r io.Reader) (image.Image, error) {
	t, err := Read(r)
	if err != nil {
		return nil, err
	}
	return t.Image()
}

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// If zero, the default is dxt.FormatDXT1 for opaque images and
	// dxt.FormatDXT5 otherwise.
	Format dxt.Format

	// SRGB marks the texture's color space as sRGB instead of linear RGB. The
	// pixel values are stored unchanged.
	SRGB bool

	// Compress wraps the PVR file in PVRZ's zlib stream.
	Compress bool

	// CompressionLevel is the zlib level used when Compress is set. Zero
	// means zlib.BestCompression.
	CompressionLevel int

	// DXT configures the block encoder. nil means its defaults.
	DXT *dxt.EncodeOptions
}

func (o *EncodeOptions) format(src image.Image) dxt.Format {
	if (o != nil) && (o.Format != dxt.FormatInvalid) {
		return o.Format
	}
	if m, ok := src.(interface{ Opaque() bool }); ok && m.Opaque() {
		return dxt.FormatDXT1
	}
	return dxt.FormatDXT5
}

// Encode writes src to w in the PVR (or, per options, PVRZ) format, as a
// single surface texture without mip-maps.
//
// options may be nil, which means to use the default configuration.
func Encode(w io.Writer, src image.Image, options *EncodeOptions) error {
	b := src.Bounds()
	h, err := NewHeader(b.Dx(), b.Dy(), options.format(src))
	if err != nil {
		return err
	}
	if (options != nil) && options.SRGB {
		h.ColorSpace = ColorSpaceSRGB
	}
	f, _ := h.Format()
	dxtOptions := (*dxt.EncodeOptions)(nil)
	if options != nil {
		dxtOptions = options.DXT
	}

	if (options == nil) || !options.Compress {
		if err := h.EncodeTo(w); err != nil {
			return err
		}
		return dxt.EncodeImage(w, src, f, dxtOptions)
	}

	buf := &bytes.Buffer{}
	if err := h.EncodeTo(buf); err != nil {
		return err
	} else if err := dxt.EncodeImage(buf, src, f, dxtOptions); err != nil {
		return err
	}
	level := options.CompressionLevel
	if level == 0 {
		level = zlib.BestCompression
	}
	compressed, err := Deflate(buf.Bytes(), level)
	if err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}
