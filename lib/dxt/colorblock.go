// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

// floatToInt rounds a to the nearest integer and clamps it to [0, limit].
func floatToInt(a float32, limit int32) int32 {
	i := int32(a + 0.5)
	if i < 0 {
		return 0
	} else if i > limit {
		return limit
	}
	return i
}

func floatTo565(c Vec3) uint16 {
	r := floatToInt(31*c.X, 31)
	g := floatToInt(63*c.Y, 63)
	b := floatToInt(31*c.Z, 31)
	return uint16((r << 11) | (g << 5) | b)
}

// writeColorBlock3 writes a 3-color block. Decoders pick the 3-color palette
// when color0 <= color1, so the endpoints are swapped if needed, which also
// swaps indexes 0 and 1. Index 2 (the midpoint) and 3 (transparent) are
// unchanged.
func writeColorBlock3(dst []byte, start Vec3, end Vec3, indexes *[16]uint8) {
	a, b := floatTo565(start), floatTo565(end)
	remapped := *indexes
	if a > b {
		a, b = b, a
		for i, index := range remapped {
			switch index {
			case 0:
				remapped[i] = 1
			case 1:
				remapped[i] = 0
			}
		}
	}
	writeColorBlock(dst, a, b, &remapped)
}

// writeColorBlock4 writes a 4-color block, which needs color0 > color1.
// Swapping the endpoints toggles the low index bit. Equal endpoints make
// every palette entry the same, so all indexes become 0.
func writeColorBlock4(dst []byte, start Vec3, end Vec3, indexes *[16]uint8) {
	a, b := floatTo565(start), floatTo565(end)
	remapped := *indexes
	if a < b {
		a, b = b, a
		for i := range remapped {
			remapped[i] = (remapped[i] ^ 1) & 3
		}
	} else if a == b {
		remapped = [16]uint8{}
	}
	writeColorBlock(dst, a, b, &remapped)
}

func writeColorBlock(dst []byte, a uint16, b uint16, indexes *[16]uint8) {
	_ = dst[7] // Early bounds check.
	dst[0] = uint8(a >> 0)
	dst[1] = uint8(a >> 8)
	dst[2] = uint8(b >> 0)
	dst[3] = uint8(b >> 8)
	packColorIndexes(dst[4:8], indexes)
}

// packColorIndexes packs 16 2-bit indexes into 4 bytes, 4 per byte, with the
// first pixel in each byte's low bits.
func packColorIndexes(dst []byte, indexes *[16]uint8) {
	for i := range 4 {
		dst[i] = (indexes[(4*i)+0] & 3) |
			((indexes[(4*i)+1] & 3) << 2) |
			((indexes[(4*i)+2] & 3) << 4) |
			((indexes[(4*i)+3] & 3) << 6)
	}
}

func unpackColorIndexes(src []byte) (indexes [16]uint8) {
	for i := range 16 {
		indexes[i] = (src[i>>2] >> (2 * (i & 3))) & 3
	}
	return indexes
}
