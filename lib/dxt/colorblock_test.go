// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"testing"
)

// pseudoRandomIndexes returns 16 indexes in [0, n) from a small LCG.
func pseudoRandomIndexes(seed uint32, n uint8) (indexes [16]uint8) {
	for i := range indexes {
		seed = (seed * 1664525) + 1013904223
		indexes[i] = uint8(seed>>24) % n
	}
	return indexes
}

func TestColorIndexesRoundTrip(tt *testing.T) {
	for seed := range uint32(100) {
		want := pseudoRandomIndexes(seed, 4)
		buf := [4]byte{}
		packColorIndexes(buf[:], &want)
		if got := unpackColorIndexes(buf[:]); got != want {
			tt.Fatalf("seed=%d: got %v, want %v", seed, got, want)
		}
	}
}

func TestColorIndexesLayout(tt *testing.T) {
	indexes := [16]uint8{1, 2, 3, 0}
	buf := [4]byte{}
	packColorIndexes(buf[:], &indexes)
	if got, want := buf, [4]byte{0x39, 0x00, 0x00, 0x00}; got != want {
		tt.Fatalf("got % 02X, want % 02X", got, want)
	}
}

func TestAlphaIndexesRoundTrip(tt *testing.T) {
	for seed := range uint32(100) {
		want := pseudoRandomIndexes(seed, 8)
		buf := [6]byte{}
		packAlphaIndexes(buf[:], &want)
		if got := unpackAlphaIndexes(buf[:]); got != want {
			tt.Fatalf("seed=%d: got %v, want %v", seed, got, want)
		}
	}
}

func TestAlphaIndexesLayout(tt *testing.T) {
	indexes := [16]uint8{7, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	buf := [6]byte{}
	packAlphaIndexes(buf[:], &indexes)
	if got, want := buf, [6]byte{0x07, 0x00, 0x00, 0x08, 0x00, 0x00}; got != want {
		tt.Fatalf("got % 02X, want % 02X", got, want)
	}
}

func TestWriteColorBlock4Canonical(tt *testing.T) {
	dark := Vec3{0, 0, 0}
	light := Vec3{1, 1, 1}
	indexes := [16]uint8{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}

	// In order: unchanged.
	buf := [8]byte{}
	writeColorBlock4(buf[:], light, dark, &indexes)
	if got := unpackColorIndexes(buf[4:]); got != indexes {
		tt.Fatalf("in order: got %v, want %v", got, indexes)
	}

	// Swapped: color0 > color1 and the low index bit toggles.
	writeColorBlock4(buf[:], dark, light, &indexes)
	c0 := uint16(buf[0]) | (uint16(buf[1]) << 8)
	c1 := uint16(buf[2]) | (uint16(buf[3]) << 8)
	if c0 <= c1 {
		tt.Fatalf("swapped: got color0=0x%04X color1=0x%04X, want color0 > color1", c0, c1)
	}
	want := [16]uint8{1, 0, 3, 2, 1, 0, 3, 2, 1, 0, 3, 2, 1, 0, 3, 2}
	if got := unpackColorIndexes(buf[4:]); got != want {
		tt.Fatalf("swapped: got %v, want %v", got, want)
	}

	// Equal: every index becomes 0.
	writeColorBlock4(buf[:], light, light, &indexes)
	if got := unpackColorIndexes(buf[4:]); got != ([16]uint8{}) {
		tt.Fatalf("equal: got %v, want all zero", got)
	}
}

func TestWriteColorBlock3Canonical(tt *testing.T) {
	dark := Vec3{0, 0, 0}
	light := Vec3{1, 1, 1}
	indexes := [16]uint8{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}

	buf := [8]byte{}
	writeColorBlock3(buf[:], light, dark, &indexes)
	c0 := uint16(buf[0]) | (uint16(buf[1]) << 8)
	c1 := uint16(buf[2]) | (uint16(buf[3]) << 8)
	if c0 > c1 {
		tt.Fatalf("got color0=0x%04X color1=0x%04X, want color0 <= color1", c0, c1)
	}
	want := [16]uint8{1, 0, 2, 3, 1, 0, 2, 3, 1, 0, 2, 3, 1, 0, 2, 3}
	if got := unpackColorIndexes(buf[4:]); got != want {
		tt.Fatalf("got %v, want %v", got, want)
	}
}

func TestFixAlphaRange(tt *testing.T) {
	testCases := []struct {
		lo, hi, steps  int32
		wantLo, wantHi int32
	}{
		{0, 255, 7, 0, 255},
		{10, 12, 5, 10, 15},
		{253, 255, 7, 248, 255},
		{255, 255, 5, 250, 255},
		{0, 0, 5, 0, 5},
	}

	for _, tc := range testCases {
		gotLo, gotHi := fixAlphaRange(tc.lo, tc.hi, tc.steps)
		if (gotLo != tc.wantLo) || (gotHi != tc.wantHi) {
			tt.Errorf("fixAlphaRange(%d, %d, %d): got (%d, %d), want (%d, %d)",
				tc.lo, tc.hi, tc.steps, gotLo, gotHi, tc.wantLo, tc.wantHi)
		}
	}
}

func TestAlphaDXT3(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		pixels[i] = uint32(17*i) << 24
	}
	buf := [8]byte{}
	encodeAlphaDXT3(buf[:], &pixels)
	if got, want := buf, [8]byte{0x10, 0x32, 0x54, 0x76, 0x98, 0xBA, 0xDC, 0xFE}; got != want {
		tt.Fatalf("encode: got % 02X, want % 02X", got, want)
	}

	decoded := [16]uint32{}
	decodeAlphaDXT3(&decoded, buf[:])
	if decoded != pixels {
		tt.Fatalf("decode: got %08X, want %08X", decoded, pixels)
	}
}
