// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

// singleSource is a quantized endpoint pair that reproduces one 8-bit channel
// value, when decoded at a given palette index, with the given absolute error.
type singleSource struct {
	start uint8
	end   uint8
	error uint8
}

// singleLookup holds, for one 8-bit target value, the best endpoint pair when
// the block's indexes all select palette entry 0 (sources[0]) or the first
// interpolated entry (sources[1]).
type singleLookup struct {
	sources [2]singleSource
}

// The four tables are keyed by the 8-bit target value. The suffix gives the
// channel depth (5 or 6 bits) and the palette size (3 or 4 colors).
var (
	lookup53 [256]singleLookup
	lookup63 [256]singleLookup
	lookup54 [256]singleLookup
	lookup64 [256]singleLookup
)

func init() {
	buildSingleLookup(&lookup53, 5, 3)
	buildSingleLookup(&lookup63, 6, 3)
	buildSingleLookup(&lookup54, 5, 4)
	buildSingleLookup(&lookup64, 6, 4)
}

// buildSingleLookup fills table by brute force over every endpoint pair. The
// first pair found with the smallest error wins.
func buildSingleLookup(table *[256]singleLookup, bits uint32, colors int) {
	n := int32(1) << bits
	for target := range int32(256) {
		for index := range 2 {
			best := singleSource{error: 0xFF}
			for start := range n {
				a := expandBits(start, bits)
				for end := range n {
					b := expandBits(end, bits)

					value := a
					if index == 1 {
						if colors == 3 {
							value = (a + b) / 2
						} else {
							value = ((2 * a) + b) / 3
						}
					}

					e := value - target
					if e < 0 {
						e = -e
					}
					if e < int32(best.error) {
						best = singleSource{
							start: uint8(start),
							end:   uint8(end),
							error: uint8(e),
						}
					}
				}
			}
			table[target].sources[index] = best
		}
	}
}

// expandBits widens a 5 or 6 bit channel to 8 bits by replicating its high
// bits into the low bits, the same as a decoder does.
func expandBits(v int32, bits uint32) int32 {
	return (v << (8 - bits)) | (v >> ((2 * bits) - 8))
}
