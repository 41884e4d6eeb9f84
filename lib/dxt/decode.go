// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"context"
	"fmt"
)

// DecodeBlock decodes one 8 (DXT1) or 16 (DXT3, DXT5) byte block into 16
// ARGB pixels in row-major order.
func DecodeBlock(block []byte, f Format) (pixels [16]uint32, retErr error) {
	bpb := f.BytesPerBlock()
	if bpb == 0 {
		return pixels, ErrBadFormat
	} else if len(block) < bpb {
		return pixels, fmt.Errorf("%w: block has %d bytes, want %d", ErrBufferTooSmall, len(block), bpb)
	}
	decodeBlock(&pixels, block, f)
	return pixels, nil
}

// Decode decodes a whole width×height image. The width and height need not
// be multiples of 4, in which case the blocks are cropped.
func Decode(data []byte, width int, height int, f Format) ([]uint32, error) {
	return DecodeRect(data, width, height, f, 0, 0, width, height)
}

// DecodeRect decodes the w×h pixel rectangle with top-left corner (x, y) from
// a width×height image. The rectangle must lie inside the image.
//
// Only the blocks that cover the rectangle are decoded.
func DecodeRect(data []byte, width int, height int, f Format, x int, y int, w int, h int) ([]uint32, error) {
	bpb := f.BytesPerBlock()
	if bpb == 0 {
		return nil, ErrBadFormat
	} else if (width <= 0) || (height <= 0) {
		return nil, fmt.Errorf("%w: %d×%d is not positive", ErrInvalidDimensions, width, height)
	} else if (width > maxDimension) || (height > maxDimension) {
		return nil, ErrImageIsTooLarge
	} else if (x < 0) || (y < 0) || (w <= 0) || (h <= 0) || (w > (width - x)) || (h > (height - y)) {
		return nil, fmt.Errorf("%w: (%d, %d) %d×%d is outside %d×%d", ErrInvalidRegion, x, y, w, h, width, height)
	} else if n := f.EncodedSize(width, height); len(data) < n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrBufferTooSmall, len(data), n)
	}

	blocksPerRow := (width + 3) / 4
	alignedLeft := x &^ 3
	alignedTop := y &^ 3
	alignedRight := (x + w + 3) &^ 3
	alignedBottom := (y + h + 3) &^ 3

	Logger().Debug("dxt: decoding rect",
		"format", f.String(),
		"width", width,
		"height", height,
		"x", x,
		"y", y,
		"w", w,
		"h", h)

	dst := make([]uint32, w*h)
	rows := (alignedBottom - alignedTop) / 4
	_ = forEachRow(context.Background(), rows, 0, func(row int) error {
		by := alignedTop + (4 * row)
		tile := [16]uint32{}
		for bx := alignedLeft; bx < alignedRight; bx += 4 {
			offset := (((by / 4) * blocksPerRow) + (bx / 4)) * bpb
			decodeBlock(&tile, data[offset:offset+bpb], f)

			for py := range 4 {
				dy := by + py - y
				if (dy < 0) || (dy >= h) {
					continue
				}
				for px := range 4 {
					dx := bx + px - x
					if (dx < 0) || (dx >= w) {
						continue
					}
					dst[(dy*w)+dx] = tile[(4*py)+px]
				}
			}
		}
		return nil
	})
	return dst, nil
}

// decodeBlock assumes that block holds f.BytesPerBlock() bytes.
func decodeBlock(dst *[16]uint32, block []byte, f Format) {
	switch f {
	case FormatDXT1:
		decodeColorBlock(dst, block[0:8], true)
	case FormatDXT3:
		decodeColorBlock(dst, block[8:16], false)
		decodeAlphaDXT3(dst, block[0:8])
	case FormatDXT5:
		decodeColorBlock(dst, block[8:16], false)
		decodeAlphaDXT5(dst, block[0:8])
	}
}

// unpack565 expands an RGB565 color to 8 bits per channel by replicating the
// high bits into the low bits.
func unpack565(v uint16) (r uint32, g uint32, b uint32) {
	r = uint32(v>>11) & 0x1F
	g = uint32(v>>5) & 0x3F
	b = uint32(v>>0) & 0x1F
	return (r << 3) | (r >> 2), (g << 2) | (g >> 4), (b << 3) | (b >> 2)
}

// decodeColorBlock sets dst to the opaque palette colors. For DXT1, when
// color0 <= color1, the palette has 3 colors and index 3 is transparent black.
func decodeColorBlock(dst *[16]uint32, src []byte, dxt1 bool) {
	c0 := uint16(src[0]) | (uint16(src[1]) << 8)
	c1 := uint16(src[2]) | (uint16(src[3]) << 8)
	r0, g0, b0 := unpack565(c0)
	r1, g1, b1 := unpack565(c1)

	palette := [4]uint32{
		0xFF00_0000 | (r0 << 16) | (g0 << 8) | b0,
		0xFF00_0000 | (r1 << 16) | (g1 << 8) | b1,
	}
	if dxt1 && (c0 <= c1) {
		palette[2] = 0xFF00_0000 |
			(((r0 + r1) / 2) << 16) |
			(((g0 + g1) / 2) << 8) |
			(((b0 + b1) / 2) << 0)
		palette[3] = 0x0000_0000
	} else {
		palette[2] = 0xFF00_0000 |
			((((2 * r0) + r1) / 3) << 16) |
			((((2 * g0) + g1) / 3) << 8) |
			((((2 * b0) + b1) / 3) << 0)
		palette[3] = 0xFF00_0000 |
			(((r0 + (2 * r1)) / 3) << 16) |
			(((g0 + (2 * g1)) / 3) << 8) |
			(((b0 + (2 * b1)) / 3) << 0)
	}

	indexes := unpackColorIndexes(src[4:8])
	for i, index := range indexes {
		dst[i] = palette[index]
	}
}

// decodeAlphaDXT3 replaces the alpha of dst with the explicit 4-bit values.
func decodeAlphaDXT3(dst *[16]uint32, src []byte) {
	for i := range 8 {
		lo := uint32(src[i] & 0x0F)
		hi := uint32(src[i] >> 4)
		dst[(2*i)+0] = (dst[(2*i)+0] & 0x00FF_FFFF) | (((lo << 4) | lo) << 24)
		dst[(2*i)+1] = (dst[(2*i)+1] & 0x00FF_FFFF) | (((hi << 4) | hi) << 24)
	}
}

// decodeAlphaDXT5 replaces the alpha of dst with the interpolated values.
func decodeAlphaDXT5(dst *[16]uint32, src []byte) {
	a0, a1 := uint32(src[0]), uint32(src[1])
	codes := [8]uint32{a0, a1}
	if a0 <= a1 {
		for i := uint32(1); i < 5; i++ {
			codes[1+i] = (((5 - i) * a0) + (i * a1)) / 5
		}
		codes[6] = 0
		codes[7] = 255
	} else {
		for i := uint32(1); i < 7; i++ {
			codes[1+i] = (((7 - i) * a0) + (i * a1)) / 7
		}
	}

	indexes := unpackAlphaIndexes(src[2:8])
	for i, index := range indexes {
		dst[i] = (dst[i] & 0x00FF_FFFF) | (codes[index] << 24)
	}
}
