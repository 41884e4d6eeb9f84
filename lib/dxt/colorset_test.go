// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"math"
	"testing"
)

func TestColorSetDeduplicates(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		if (i & 1) == 0 {
			pixels[i] = 0xFF10_2030
		} else {
			pixels[i] = 0x8040_5060
		}
	}

	for _, oneBitAlpha := range []bool{false, true} {
		s := makeColorSet(&pixels, oneBitAlpha)
		if s.count != 2 {
			tt.Fatalf("oneBitAlpha=%t: count: got %d, want 2", oneBitAlpha, s.count)
		}
		if s.transparent {
			tt.Fatalf("oneBitAlpha=%t: transparent: got true, want false", oneBitAlpha)
		}
		if got, want := s.points[0], (Vec3{0x10 / 255.0, 0x20 / 255.0, 0x30 / 255.0}); got != want {
			tt.Fatalf("oneBitAlpha=%t: points[0]: got %v, want %v", oneBitAlpha, got, want)
		}

		w0 := float32(math.Sqrt(8))
		w1 := float32(math.Sqrt(8 * 129.0 / 256.0))
		if d := absf(s.weights[0] - w0); d > 1e-5 {
			tt.Fatalf("oneBitAlpha=%t: weights[0]: got %v, want %v", oneBitAlpha, s.weights[0], w0)
		}
		if d := absf(s.weights[1] - w1); d > 1e-5 {
			tt.Fatalf("oneBitAlpha=%t: weights[1]: got %v, want %v", oneBitAlpha, s.weights[1], w1)
		}

		for i, r := range s.remap {
			if want := int8(i & 1); r != want {
				tt.Fatalf("oneBitAlpha=%t: remap[%d]: got %d, want %d", oneBitAlpha, i, r, want)
			}
		}
	}
}

func TestColorSetMatchesRGBIgnoringAlpha(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		pixels[i] = (uint32(0x80+(4*i)) << 24) | 0x00AB_CDEF
	}
	s := makeColorSet(&pixels, false)
	if s.count != 1 {
		tt.Fatalf("count: got %d, want 1", s.count)
	}
}

func TestColorSetPunchThrough(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		if i < 5 {
			pixels[i] = 0x7FFF_0000
		} else {
			pixels[i] = 0xFF00_FF00
		}
	}

	s := makeColorSet(&pixels, true)
	if !s.transparent {
		tt.Fatalf("transparent: got false, want true")
	} else if s.count != 1 {
		tt.Fatalf("count: got %d, want 1", s.count)
	}

	src := [16]uint8{2}
	got := s.remapIndices(&src)
	for i, index := range got {
		want := uint8(2)
		if i < 5 {
			want = punchThroughIndex
		}
		if index != want {
			tt.Fatalf("index %d: got %d, want %d", i, index, want)
		}
	}

	// Without one bit alpha, the 0x7F pixels are ordinary colors.
	s = makeColorSet(&pixels, false)
	if s.transparent {
		tt.Fatalf("DXT5: transparent: got true, want false")
	} else if s.count != 2 {
		tt.Fatalf("DXT5: count: got %d, want 2", s.count)
	}
}

func TestColorSetAllTransparent(tt *testing.T) {
	pixels := [16]uint32{}
	s := makeColorSet(&pixels, true)
	if !s.transparent || (s.count != 0) {
		tt.Fatalf("got transparent=%t count=%d, want true 0", s.transparent, s.count)
	}
}
