// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"image"

	"golang.org/x/image/draw"
)

// ImageToARGB converts src to row-major 0xAARRGGBB pixels, non-premultiplied.
func ImageToARGB(src image.Image) (pixels []uint32, width int, height int) {
	b := src.Bounds()
	width, height = b.Dx(), b.Dy()
	return extract(toNRGBA(src), width, height), width, height
}

// ARGBToImage converts row-major 0xAARRGGBB pixels to an *image.NRGBA whose
// bounds start at (0, 0).
func ARGBToImage(pixels []uint32, width int, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels[:width*height] {
		m.Pix[(4*i)+0] = uint8(p >> 16)
		m.Pix[(4*i)+1] = uint8(p >> 8)
		m.Pix[(4*i)+2] = uint8(p >> 0)
		m.Pix[(4*i)+3] = uint8(p >> 24)
	}
	return m
}

// extractPadded is like ImageToARGB but rounds the width and height up to
// multiples of 4. Out-of-bound pixels right of and below the image are
// substituted with the nearest in-bound pixel from the right and bottom edges.
func extractPadded(src image.Image) (pixels []uint32, width int, height int, retErr error) {
	b := src.Bounds()
	if (b.Dx() <= 0) || (b.Dy() <= 0) {
		return nil, 0, 0, ErrInvalidDimensions
	} else if (b.Dx() > maxDimension) || (b.Dy() > maxDimension) {
		return nil, 0, 0, ErrImageIsTooLarge
	}
	width = (b.Dx() + 3) &^ 3
	height = (b.Dy() + 3) &^ 3
	return extract(toNRGBA(src), width, height), width, height, nil
}

// extract reads a width×height rectangle from the top-left of m, clamping
// coordinates to m's bounds.
func extract(m *image.NRGBA, width int, height int) []uint32 {
	mb := m.Bounds()
	mX1 := mb.Dx() - 1
	mY1 := mb.Dy() - 1

	pixels := make([]uint32, width*height)
	for y := range height {
		row := m.Pix[m.PixOffset(mb.Min.X, mb.Min.Y+min(mY1, y)):]
		for x := range width {
			i := 4 * min(mX1, x)
			pixels[(y*width)+x] = (uint32(row[i+3]) << 24) |
				(uint32(row[i+0]) << 16) |
				(uint32(row[i+1]) << 8) |
				(uint32(row[i+2]) << 0)
		}
	}
	return pixels
}

// toNRGBA returns src if it is already an *image.NRGBA, otherwise a copy of
// it converted to non-premultiplied alpha.
func toNRGBA(src image.Image) *image.NRGBA {
	if m, ok := src.(*image.NRGBA); ok {
		return m
	}
	b := src.Bounds()
	m := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(m, image.Point{}, src, b, draw.Src, nil)
	return m
}
