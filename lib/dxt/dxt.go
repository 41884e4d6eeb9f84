// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package dxt implements the DXT1, DXT3 and DXT5 (also known as BC1, BC2 and
// BC3) block compressed texture formats.
//
// Every format splits an image into 4×4 pixel blocks. Each block is encoded
// independently, as two RGB565 color endpoints plus 2-bit per-pixel indexes
// into a small interpolated palette. DXT3 and DXT5 prepend an 8 byte alpha
// block: 4-bit explicit alpha for DXT3 and an interpolated 3-bit alpha ramp
// for DXT5.
//
// Pixels are exchanged as uint32 values in 0xAARRGGBB order, non-premultiplied
// alpha, row-major.
//
// DXT blocks often appear inside .pvr and .pvrz (PowerVR) texture files. See
// the sibling pvr package.
package dxt

import (
	"errors"
	"fmt"
)

var (
	ErrBadArgument       = errors.New("dxt: bad argument")
	ErrBadFormat         = errors.New("dxt: bad format")
	ErrBufferTooSmall    = errors.New("dxt: buffer too small")
	ErrInvalidDimensions = errors.New("dxt: invalid dimensions")
	ErrInvalidRegion     = errors.New("dxt: invalid region")
	ErrImageIsTooLarge   = errors.New("dxt: image is too large")
)

// Format is one of the DXT block compression variants.
type Format uint8

const (
	FormatInvalid = Format(0)
	FormatDXT1    = Format(1)
	FormatDXT3    = Format(3)
	FormatDXT5    = Format(5)
)

// BytesPerBlock returns the Format-dependent number of bytes used to encode
// each 4×4 pixel block, or 0 for an invalid Format.
func (f Format) BytesPerBlock() int {
	switch f {
	case FormatDXT1:
		return 8
	case FormatDXT3, FormatDXT5:
		return 16
	}
	return 0
}

// Valid returns whether f is one of DXT1, DXT3 or DXT5.
func (f Format) Valid() bool {
	return f.BytesPerBlock() != 0
}

func (f Format) String() string {
	switch f {
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat converts a name like "dxt1", "DXT1" or "bc1" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "dxt1", "DXT1", "bc1", "BC1":
		return FormatDXT1, nil
	case "dxt3", "DXT3", "bc2", "BC2":
		return FormatDXT3, nil
	case "dxt5", "DXT5", "bc3", "BC3":
		return FormatDXT5, nil
	}
	return FormatInvalid, fmt.Errorf("%w: %q", ErrBadFormat, s)
}

// EncodedSize returns the number of bytes needed to hold a width×height image
// in the Format f. The width and height are rounded up to a multiple of 4.
func (f Format) EncodedSize(width int, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4) * f.BytesPerBlock()
}

// Quality trades encoding speed for fidelity.
type Quality uint8

const (
	// QualityHigh uses the iterative cluster fit, which re-sorts the color
	// points along the best axis found so far, up to 8 times.
	QualityHigh = Quality(0)
	// QualityNormal uses a single cluster fit pass.
	QualityNormal = Quality(1)
	// QualityLow uses the range fit, which only considers the two extreme
	// colors along the principal axis.
	QualityLow = Quality(2)
)

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// Quality selects the color fitting strategy. The zero value means
	// QualityHigh.
	Quality Quality

	// Workers is the number of goroutines that encode rows of blocks
	// concurrently. Zero means runtime.GOMAXPROCS(0).
	Workers int
}

func (o *EncodeOptions) quality() Quality {
	if o == nil {
		return QualityHigh
	}
	return o.Quality
}

func (o *EncodeOptions) workers() int {
	if o == nil {
		return 0
	}
	return o.Workers
}

// checkDimensions validates the width and height passed to Encode.
func checkDimensions(width int, height int) error {
	if (width <= 0) || (height <= 0) {
		return fmt.Errorf("%w: %d×%d is not positive", ErrInvalidDimensions, width, height)
	} else if ((width & 3) != 0) || ((height & 3) != 0) {
		return fmt.Errorf("%w: %d×%d is not a multiple of 4", ErrInvalidDimensions, width, height)
	} else if (width > maxDimension) || (height > maxDimension) {
		return ErrImageIsTooLarge
	}
	return nil
}

// maxDimension keeps width*height*4 comfortably inside an int on 32-bit
// platforms.
const maxDimension = 1 << 15
