// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

// singleFit encodes a block whose opaque pixels all share one color. Each
// channel is matched independently through the precomputed lookup tables.
type singleFit struct {
	color [3]uint8
	start Vec3
	end   Vec3
	index uint8
	error int32
}

func makeSingleFit(set *colorSet) (f singleFit) {
	p := set.points[0]
	f.color = [3]uint8{
		uint8(floatToInt(255*p.X, 255)),
		uint8(floatToInt(255*p.Y, 255)),
		uint8(floatToInt(255*p.Z, 255)),
	}
	return f
}

func (f *singleFit) compress3(c *colorFit, dst []byte) {
	f.computeEndpoints(&lookup53, &lookup63, &lookup53)
	if float32(f.error) < c.bestError {
		c.writeSolid3(f.start, f.end, f.index, dst)
		c.bestError = float32(f.error)
	}
}

func (f *singleFit) compress4(c *colorFit, dst []byte) {
	f.computeEndpoints(&lookup54, &lookup64, &lookup54)
	if float32(f.error) < c.bestError {
		c.writeSolid4(f.start, f.end, f.index, dst)
		c.bestError = float32(f.error)
	}
}

// computeEndpoints picks, between palette entry 0 and the first interpolated
// entry, the one whose per-channel lookups give the smallest summed squared
// error.
func (f *singleFit) computeEndpoints(r *[256]singleLookup, g *[256]singleLookup, b *[256]singleLookup) {
	f.error = maxInt32
	for index := range 2 {
		sr := r[f.color[0]].sources[index]
		sg := g[f.color[1]].sources[index]
		sb := b[f.color[2]].sources[index]

		e := (int32(sr.error) * int32(sr.error)) +
			(int32(sg.error) * int32(sg.error)) +
			(int32(sb.error) * int32(sb.error))
		if e < f.error {
			f.start = Vec3{float32(sr.start) / 31, float32(sg.start) / 63, float32(sb.start) / 31}
			f.end = Vec3{float32(sr.end) / 31, float32(sg.end) / 63, float32(sb.end) / 31}
			f.index = uint8(2 * index)
			f.error = e
		}
	}
}

const maxInt32 = 0x7FFF_FFFF
