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
	"image"
	"io"
)

// Encode compresses a width×height image of ARGB pixels in the Format f. The
// width and height must be positive multiples of 4 and pixels must hold at
// least width*height elements.
//
// The result holds (width/4)*(height/4) blocks in row-major order.
//
// opts may be nil, which means to use the default configuration.
func Encode(pixels []uint32, width int, height int, f Format, opts *EncodeOptions) ([]byte, error) {
	return EncodeContext(context.Background(), pixels, width, height, f, opts)
}

// EncodeContext is like Encode but stops early, returning ctx.Err(), if ctx
// is done before every row of blocks is encoded.
func EncodeContext(ctx context.Context, pixels []uint32, width int, height int, f Format, opts *EncodeOptions) ([]byte, error) {
	bpb := f.BytesPerBlock()
	if bpb == 0 {
		return nil, ErrBadFormat
	} else if err := checkDimensions(width, height); err != nil {
		return nil, err
	} else if len(pixels) < (width * height) {
		return nil, fmt.Errorf("%w: have %d pixels, want %d", ErrBufferTooSmall, len(pixels), width*height)
	}

	blocksPerRow := width / 4
	quality := opts.quality()
	dst := make([]byte, ((width*height)/16)*bpb)

	Logger().Debug("dxt: encoding",
		"format", f.String(),
		"width", width,
		"height", height,
		"quality", int(quality),
		"workers", opts.workers())

	err := forEachRow(ctx, height/4, opts.workers(), func(row int) error {
		tile := [16]uint32{}
		for col := range blocksPerRow {
			src := (4 * row * width) + (4 * col)
			for y := range 4 {
				copy(tile[4*y:(4*y)+4], pixels[src+(y*width):])
			}
			offset := ((row * blocksPerRow) + col) * bpb
			encodeBlock(dst[offset:offset+bpb], &tile, f, quality)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// EncodeImage writes src to dst in the Format f. Unlike Encode, the image
// bounds need not be multiples of 4: the right and bottom edge pixels are
// repeated to fill the partial blocks. It writes f.EncodedSize(width, height)
// bytes.
//
// opts may be nil, which means to use the default configuration.
func EncodeImage(dst io.Writer, src image.Image, f Format, opts *EncodeOptions) error {
	if (dst == nil) || (src == nil) {
		return ErrBadArgument
	} else if !f.Valid() {
		return ErrBadFormat
	}

	pixels, width, height, err := extractPadded(src)
	if err != nil {
		return err
	}
	data, err := Encode(pixels, width, height, f, opts)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// encodeBlock writes f.BytesPerBlock() bytes to dst.
func encodeBlock(dst []byte, pixels *[16]uint32, f Format, quality Quality) {
	oneBitAlpha := f == FormatDXT1
	colorDst := dst[0:8]
	if !oneBitAlpha {
		colorDst = dst[8:16]
	}

	set := makeColorSet(pixels, oneBitAlpha)
	fit := makeColorFit(&set, quality)
	fit.compress(colorDst, oneBitAlpha)

	switch f {
	case FormatDXT3:
		encodeAlphaDXT3(dst[0:8], pixels)
	case FormatDXT5:
		encodeAlphaDXT5(dst[0:8], pixels)
	}
}
