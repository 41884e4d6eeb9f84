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
)

// punchThroughIndex is the DXT1 3-color mode index meaning transparent black.
const punchThroughIndex = 3

// colorSet is the set of distinct colors in a 4×4 block.
type colorSet struct {
	count       int
	points      [16]Vec3
	weights     [16]float32
	remap       [16]int8
	transparent bool
}

// makeColorSet de-duplicates the 16 ARGB pixels of a block.
//
// When oneBitAlpha is set (DXT1), pixels with alpha below 0x80 are left out
// of the set and remapped to -1, which remapIndices turns into the
// punch-through index.
//
// A point's weight grows with each duplicate and with alpha, and the square
// root is taken at the end so that large flat areas don't swamp the fit.
func makeColorSet(pixels *[16]uint32, oneBitAlpha bool) (s colorSet) {
	for i := range 16 {
		p := pixels[i]
		a := p >> 24
		if oneBitAlpha && (a < 0x80) {
			s.remap[i] = -1
			s.transparent = true
			continue
		}
		w := float32(a+1) / 256

		for j := 0; ; j++ {
			if j == i {
				s.points[s.count] = Vec3{
					float32((p>>16)&0xFF) / 255,
					float32((p>>8)&0xFF) / 255,
					float32((p>>0)&0xFF) / 255,
				}
				s.weights[s.count] = w
				s.remap[i] = int8(s.count)
				s.count++
				break
			}

			if s.remap[j] < 0 {
				continue
			} else if ((pixels[j] ^ p) & 0x00FF_FFFF) == 0 {
				index := s.remap[j]
				s.weights[index] += w
				s.remap[i] = index
				break
			}
		}
	}

	for i := range s.count {
		s.weights[i] = float32(math.Sqrt(float64(s.weights[i])))
	}
	return s
}

// remapIndices maps per-point indexes back to per-pixel indexes.
func (s *colorSet) remapIndices(src *[16]uint8) (dst [16]uint8) {
	for i, j := range s.remap {
		if j < 0 {
			dst[i] = punchThroughIndex
		} else {
			dst[i] = src[j]
		}
	}
	return dst
}
