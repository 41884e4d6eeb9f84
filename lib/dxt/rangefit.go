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

// rangeFit takes the two points furthest apart along the principal axis as the
// endpoints and maps every point to its nearest palette entry.
type rangeFit struct {
	start Vec3
	end   Vec3
}

func makeRangeFit(set *colorSet) (f rangeFit) {
	n := set.count
	if n == 0 {
		return f
	}
	points := set.points[:n]

	cov := weightedCovariance(points, set.weights[:n])
	axis := cov.PrincipalComponent()

	f.start, f.end = points[0], points[0]
	lo := points[0].Dot(axis)
	hi := lo
	for _, p := range points[1:] {
		if d := p.Dot(axis); d < lo {
			f.start, lo = p, d
		} else if d > hi {
			f.end, hi = p, d
		}
	}

	f.start = roundToGrid(f.start)
	f.end = roundToGrid(f.end)
	return f
}

func (f *rangeFit) compress3(c *colorFit, dst []byte) {
	codes := [3]Vec3{
		f.start,
		f.end,
		f.start.Scale(0.5).Add(f.end.Scale(0.5)),
	}
	closest, e := f.assign(c.set, codes[:])
	if e < c.bestError {
		indexes := c.set.remapIndices(&closest)
		writeColorBlock3(dst, f.start, f.end, &indexes)
		c.bestError = e
	}
}

func (f *rangeFit) compress4(c *colorFit, dst []byte) {
	codes := [4]Vec3{
		f.start,
		f.end,
		f.start.Scale(2.0 / 3.0).Add(f.end.Scale(1.0 / 3.0)),
		f.start.Scale(1.0 / 3.0).Add(f.end.Scale(2.0 / 3.0)),
	}
	closest, e := f.assign(c.set, codes[:])
	if e < c.bestError {
		indexes := c.set.remapIndices(&closest)
		writeColorBlock4(dst, f.start, f.end, &indexes)
		c.bestError = e
	}
}

// assign maps each point to the nearest code under the perceptual metric,
// returning the per-point indexes and the total error.
func (f *rangeFit) assign(set *colorSet, codes []Vec3) (closest [16]uint8, total float32) {
	for i, p := range set.points[:set.count] {
		dist := float32(math.MaxFloat32)
		for j, code := range codes {
			if d := perceptualMetric.Mul(p.Sub(code)).LengthSq(); d < dist {
				dist = d
				closest[i] = uint8(j)
			}
		}
		total += dist
	}
	return closest, total
}
