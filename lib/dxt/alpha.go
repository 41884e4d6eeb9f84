// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

// encodeAlphaDXT3 writes 16 explicit 4-bit alpha values, two per byte with
// the even pixel in the low nibble.
func encodeAlphaDXT3(dst []byte, pixels *[16]uint32) {
	_ = dst[7] // Early bounds check.
	for i := range 8 {
		q0 := floatToInt(float32(pixels[(2*i)+0]>>24)*(15.0/255.0), 15)
		q1 := floatToInt(float32(pixels[(2*i)+1]>>24)*(15.0/255.0), 15)
		dst[i] = uint8(q0) | uint8(q1<<4)
	}
}

// encodeAlphaDXT5 writes an interpolated alpha block. Two palettes are tried.
// The 5-step palette spans the non-extreme alpha values and adds exact 0 and
// 255 entries. The 7-step palette spans the whole range. The 5-step palette
// wins ties.
func encodeAlphaDXT5(dst []byte, pixels *[16]uint32) {
	min5, max5 := int32(255), int32(0)
	min7, max7 := int32(255), int32(0)
	for _, p := range pixels {
		v := int32(p >> 24)
		min7 = min(min7, v)
		max7 = max(max7, v)
		if v != 0 {
			min5 = min(min5, v)
		}
		if v != 255 {
			max5 = max(max5, v)
		}
	}
	if min5 > max5 {
		min5 = max5
	}
	if min7 > max7 {
		min7 = max7
	}
	min5, max5 = fixAlphaRange(min5, max5, 5)
	min7, max7 = fixAlphaRange(min7, max7, 7)

	codes5 := [8]int32{min5, max5}
	for i := int32(1); i < 5; i++ {
		codes5[1+i] = (((5 - i) * min5) + (i * max5)) / 5
	}
	codes5[6] = 0
	codes5[7] = 255

	codes7 := [8]int32{min7, max7}
	for i := int32(1); i < 7; i++ {
		codes7[1+i] = (((7 - i) * min7) + (i * max7)) / 7
	}

	indexes5, err5 := fitAlphaCodes(pixels, &codes5)
	indexes7, err7 := fitAlphaCodes(pixels, &codes7)
	if err5 <= err7 {
		writeAlphaBlock5(dst, uint8(min5), uint8(max5), &indexes5)
	} else {
		writeAlphaBlock7(dst, uint8(min7), uint8(max7), &indexes7)
	}
}

// fixAlphaRange widens [lo, hi] to span at least steps, first by raising hi
// (saturating at 255) and then by lowering lo.
func fixAlphaRange(lo int32, hi int32, steps int32) (int32, int32) {
	if (hi - lo) < steps {
		hi = min(lo+steps, 255)
	}
	if (hi - lo) < steps {
		lo = max(0, hi-steps)
	}
	return lo, hi
}

func fitAlphaCodes(pixels *[16]uint32, codes *[8]int32) (indexes [16]uint8, err int32) {
	for i, p := range pixels {
		v := int32(p >> 24)
		least := int32(maxInt32)
		for j, code := range codes {
			d := (v - code) * (v - code)
			if d < least {
				least = d
				indexes[i] = uint8(j)
			}
		}
		err += least
	}
	return indexes, err
}

// writeAlphaBlock5 writes a block that decoders read as 5-step, which needs
// alpha0 <= alpha1. Swapping the endpoints reverses the interpolated indexes
// 2..5 but leaves the 0 and 255 entries (6 and 7) alone.
func writeAlphaBlock5(dst []byte, alpha0 uint8, alpha1 uint8, indexes *[16]uint8) {
	if alpha0 <= alpha1 {
		writeAlphaBlock(dst, alpha0, alpha1, indexes)
		return
	}
	swapped := [16]uint8{}
	for i, index := range indexes {
		switch {
		case index == 0:
			swapped[i] = 1
		case index == 1:
			swapped[i] = 0
		case index <= 5:
			swapped[i] = 7 - index
		default:
			swapped[i] = index
		}
	}
	writeAlphaBlock(dst, alpha1, alpha0, &swapped)
}

// writeAlphaBlock7 writes a block that decoders read as 7-step, which needs
// alpha0 > alpha1. Swapping the endpoints reverses the interpolated indexes.
func writeAlphaBlock7(dst []byte, alpha0 uint8, alpha1 uint8, indexes *[16]uint8) {
	if alpha0 >= alpha1 {
		writeAlphaBlock(dst, alpha0, alpha1, indexes)
		return
	}
	swapped := [16]uint8{}
	for i, index := range indexes {
		switch index {
		case 0:
			swapped[i] = 1
		case 1:
			swapped[i] = 0
		default:
			swapped[i] = 9 - index
		}
	}
	writeAlphaBlock(dst, alpha1, alpha0, &swapped)
}

func writeAlphaBlock(dst []byte, alpha0 uint8, alpha1 uint8, indexes *[16]uint8) {
	_ = dst[7] // Early bounds check.
	dst[0] = alpha0
	dst[1] = alpha1
	packAlphaIndexes(dst[2:8], indexes)
}

// packAlphaIndexes packs 16 3-bit indexes into 6 bytes as two little-endian
// 24-bit groups of 8 indexes each.
func packAlphaIndexes(dst []byte, indexes *[16]uint8) {
	for g := range 2 {
		v := uint32(0)
		for j := range 8 {
			v |= uint32(indexes[(8*g)+j]&7) << (3 * j)
		}
		dst[(3*g)+0] = uint8(v >> 0)
		dst[(3*g)+1] = uint8(v >> 8)
		dst[(3*g)+2] = uint8(v >> 16)
	}
}

func unpackAlphaIndexes(src []byte) (indexes [16]uint8) {
	for g := range 2 {
		v := uint32(src[(3*g)+0]) |
			(uint32(src[(3*g)+1]) << 8) |
			(uint32(src[(3*g)+2]) << 16)
		for j := range 8 {
			indexes[(8*g)+j] = uint8(v>>(3*j)) & 7
		}
	}
	return indexes
}
