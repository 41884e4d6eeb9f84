// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pvr

import (
	"fmt"
	"io"

	"github.com/nigeltao/dxt/lib/dxt"
)

// Signature is the first field of every PVR version 3 header. Written little
// endian, it is the Magic byte string.
const Signature = 0x03525650

// FixedHeaderSize is the size of the header, excluding the metadata.
const FixedHeaderSize = 0x34

// maxMetaDataSize bounds the allocation made for a header read from an
// io.Reader.
const maxMetaDataSize = 1 << 24

// Pixel formats. Only the compressed formats that this package can decode are
// listed.
const (
	PixelFormatDXT1 = 7
	PixelFormatDXT3 = 9
	PixelFormatDXT5 = 11
)

// Color spaces.
const (
	ColorSpaceLinearRGB = 0
	ColorSpaceSRGB      = 1
)

// ChannelTypeUnsignedByteNormalized is the only supported channel type.
const ChannelTypeUnsignedByteNormalized = 0

// FlagPremultiplied means that the color channels are premultiplied by alpha.
const FlagPremultiplied = 0x02

// Header is a PVR version 3 texture header.
type Header struct {
	Flags       uint32
	PixelFormat uint64
	ColorSpace  uint32
	ChannelType uint32
	Height      uint32
	Width       uint32
	Depth       uint32
	NumSurfaces uint32
	NumFaces    uint32
	NumMipMaps  uint32
	MetaData    []byte
}

// NewHeader returns the header of a single surface, single face, single
// mip-map 2D texture.
func NewHeader(width int, height int, f dxt.Format) (*Header, error) {
	pf := uint64(0)
	switch f {
	case dxt.FormatDXT1:
		pf = PixelFormatDXT1
	case dxt.FormatDXT3:
		pf = PixelFormatDXT3
	case dxt.FormatDXT5:
		pf = PixelFormatDXT5
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, f)
	}
	h := &Header{
		PixelFormat: pf,
		ColorSpace:  ColorSpaceLinearRGB,
		ChannelType: ChannelTypeUnsignedByteNormalized,
		Height:      uint32(height),
		Width:       uint32(width),
		Depth:       1,
		NumSurfaces: 1,
		NumFaces:    1,
		NumMipMaps:  1,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// ParseHeader parses the header at the start of b. The payload starts at
// b[h.Size():].
func ParseHeader(b []byte) (*Header, error) {
	h := &Header{}
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return h, nil
}

// ReadHeader reads a header from r, leaving r positioned at the payload.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := [FixedHeaderSize]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	h := &Header{}
	metaSize, err := h.parseFixed(buf[:])
	if err != nil {
		return nil, err
	} else if metaSize > maxMetaDataSize {
		return nil, fmt.Errorf("%w: metadata size %d is too large", ErrMalformedHeader, metaSize)
	}
	if metaSize > 0 {
		h.MetaData = make([]byte, metaSize)
		if _, err := io.ReadFull(r, h.MetaData); err != nil {
			return nil, fmt.Errorf("%w: metadata: %w", ErrMalformedHeader, err)
		}
	}
	h.logParsed()
	return h, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. b may hold more than
// the header, in which case the excess is ignored.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < FixedHeaderSize {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrMalformedHeader, len(b), FixedHeaderSize)
	}
	metaSize, err := h.parseFixed(b[:FixedHeaderSize])
	if err != nil {
		return err
	}
	b = b[FixedHeaderSize:]
	if uint64(len(b)) < uint64(metaSize) {
		return fmt.Errorf("%w: metadata: have %d bytes, want %d", ErrMalformedHeader, len(b), metaSize)
	}
	h.MetaData = nil
	if metaSize > 0 {
		h.MetaData = append([]byte(nil), b[:metaSize]...)
	}
	h.logParsed()
	return nil
}

func (h *Header) parseFixed(b []byte) (metaSize uint32, retErr error) {
	if sig := readU32LE(b[0x00:]); sig != Signature {
		return 0, fmt.Errorf("%w: bad signature 0x%08X", ErrMalformedHeader, sig)
	}
	h.Flags = readU32LE(b[0x04:])
	h.PixelFormat = uint64(readU32LE(b[0x08:])) | (uint64(readU32LE(b[0x0C:])) << 32)
	h.ColorSpace = readU32LE(b[0x10:])
	h.ChannelType = readU32LE(b[0x14:])
	h.Height = readU32LE(b[0x18:])
	h.Width = readU32LE(b[0x1C:])
	h.Depth = readU32LE(b[0x20:])
	h.NumSurfaces = readU32LE(b[0x24:])
	h.NumFaces = readU32LE(b[0x28:])
	h.NumMipMaps = readU32LE(b[0x2C:])
	metaSize = readU32LE(b[0x30:])

	if err := h.Validate(); err != nil {
		return 0, err
	}
	return metaSize, nil
}

func (h *Header) logParsed() {
	dxt.Logger().Debug("pvr: parsed header",
		"pixelFormat", h.PixelFormat,
		"width", h.Width,
		"height", h.Height,
		"mipMaps", h.NumMipMaps,
		"metaData", len(h.MetaData))
}

// Validate checks that the header describes a texture this package supports.
func (h *Header) Validate() error {
	if _, err := h.Format(); err != nil {
		return err
	} else if h.ChannelType != ChannelTypeUnsignedByteNormalized {
		return fmt.Errorf("%w: channel type %d", ErrUnsupportedPixelFormat, h.ChannelType)
	} else if (h.ColorSpace != ColorSpaceLinearRGB) && (h.ColorSpace != ColorSpaceSRGB) {
		return fmt.Errorf("%w: color space %d", ErrMalformedHeader, h.ColorSpace)
	} else if (h.Width == 0) || (h.Height == 0) {
		return fmt.Errorf("%w: %d×%d is empty", ErrMalformedHeader, h.Width, h.Height)
	} else if (h.Width > maxDimension) || (h.Height > maxDimension) {
		return fmt.Errorf("%w: %d×%d", dxt.ErrImageIsTooLarge, h.Width, h.Height)
	} else if (h.Depth == 0) || (h.NumSurfaces == 0) || (h.NumFaces == 0) || (h.NumMipMaps == 0) {
		return fmt.Errorf("%w: zero depth, surface, face or mip-map count", ErrMalformedHeader)
	}
	return nil
}

// maxDimension matches the largest image the dxt package accepts.
const maxDimension = 1 << 15

// Format returns the DXT variant of the texture.
func (h *Header) Format() (dxt.Format, error) {
	switch h.PixelFormat {
	case PixelFormatDXT1:
		return dxt.FormatDXT1, nil
	case PixelFormatDXT3:
		return dxt.FormatDXT3, nil
	case PixelFormatDXT5:
		return dxt.FormatDXT5, nil
	}
	return dxt.FormatInvalid, fmt.Errorf("%w: 0x%X", ErrUnsupportedPixelFormat, h.PixelFormat)
}

// Size returns the number of bytes before the payload: the fixed header plus
// the metadata.
func (h *Header) Size() int {
	return FixedHeaderSize + len(h.MetaData)
}

// ImageSize returns the number of payload bytes of the first surface, face and
// depth slice at the largest mip-map level. That image comes first in the
// payload.
func (h *Header) ImageSize() int {
	f, _ := h.Format()
	return f.EncodedSize(int(h.Width), int(h.Height))
}

// PayloadSize returns the number of payload bytes of every mip-map level,
// surface, face and depth slice.
func (h *Header) PayloadSize() int {
	f, _ := h.Format()
	w, ht, d := int(h.Width), int(h.Height), int(h.Depth)
	n := 0
	for range h.NumMipMaps {
		n += f.EncodedSize(w, ht) * d
		w, ht, d = max(1, w/2), max(1, ht/2), max(1, d/2)
	}
	return n * int(h.NumSurfaces) * int(h.NumFaces)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h *Header) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, FixedHeaderSize, h.Size())
	writeU32LE(b[0x00:], Signature)
	writeU32LE(b[0x04:], h.Flags)
	writeU32LE(b[0x08:], uint32(h.PixelFormat>>0))
	writeU32LE(b[0x0C:], uint32(h.PixelFormat>>32))
	writeU32LE(b[0x10:], h.ColorSpace)
	writeU32LE(b[0x14:], h.ChannelType)
	writeU32LE(b[0x18:], h.Height)
	writeU32LE(b[0x1C:], h.Width)
	writeU32LE(b[0x20:], h.Depth)
	writeU32LE(b[0x24:], h.NumSurfaces)
	writeU32LE(b[0x28:], h.NumFaces)
	writeU32LE(b[0x2C:], h.NumMipMaps)
	writeU32LE(b[0x30:], uint32(len(h.MetaData)))
	return append(b, h.MetaData...), nil
}

// EncodeTo writes the marshaled header to w.
func (h *Header) EncodeTo(w io.Writer) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func readU32LE(b []byte) uint32 {
	_ = b[3] // Early bounds check.
	return (uint32(b[0]) << 0) |
		(uint32(b[1]) << 8) |
		(uint32(b[2]) << 16) |
		(uint32(b[3]) << 24)
}

func writeU32LE(b []byte, u uint32) {
	_ = b[3] // Early bounds check.
	b[0] = uint8(u >> 0)
	b[1] = uint8(u >> 8)
	b[2] = uint8(u >> 16)
	b[3] = uint8(u >> 24)
}
