// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie implements the NIE (Naive) image file format.
//
// It is an incomplete implementation (and hence an internal package), only
// providing what's needed by the github.com/nigeltao/dxt module.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"errors"
	"image"

	"github.com/nigeltao/dxt/lib/dxt"
)

var (
	ErrBadArgument = errors.New("nie: bad argument")
)

// magicBN4 starts every NIE file in BGRA order, non-premultiplied alpha, 4
// bytes per pixel.
var magicBN4 = [8]byte{0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '4'}

// EncodeBN4 encodes m as a NIE file in BGRA order, non-premultiplied alpha, 4
// bytes per pixel (8 bits per channel). Deeper images are truncated to 8 bits.
func EncodeBN4(m image.Image) (ret []byte, retErr error) {
	if m == nil {
		return nil, ErrBadArgument
	}
	pixels, width, height := dxt.ImageToARGB(m)
	return EncodeBN4ARGB(pixels, width, height)
}

// EncodeBN4ARGB is like EncodeBN4 but takes row-major 0xAARRGGBB pixels, such
// as those returned by dxt.Decode.
func EncodeBN4ARGB(pixels []uint32, width int, height int) (ret []byte, retErr error) {
	if (width < 0) || (height < 0) || (len(pixels) < (width * height)) {
		return nil, ErrBadArgument
	}

	ret = make([]byte, 0, 16+(4*width*height))
	ret = append(ret, magicBN4[:]...)
	ret = appendU32LE(ret, uint32(width))
	ret = appendU32LE(ret, uint32(height))
	for _, p := range pixels[:width*height] {
		// 0xAARRGGBB, little endian, is B, G, R, A.
		ret = appendU32LE(ret, p)
	}
	return ret, nil
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}
