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

type fitKind uint8

const (
	fitKindSingle  = fitKind(0)
	fitKindRange   = fitKind(1)
	fitKindCluster = fitKind(2)
)

// colorFit chooses endpoints and indexes for the color half of a block. It
// holds exactly one of the single, range or cluster strategies, selected by
// how many distinct colors the block has.
//
// A colorFit is built for one block, writes that block's 8 color bytes and is
// then discarded.
type colorFit struct {
	set       *colorSet
	kind      fitKind
	bestError float32

	single  singleFit
	rng     rangeFit
	cluster clusterFit
}

func makeColorFit(set *colorSet, q Quality) (c colorFit) {
	c.set = set
	c.bestError = math.MaxFloat32

	switch {
	case set.count == 1:
		c.kind = fitKindSingle
		c.single = makeSingleFit(set)
	case (set.count == 0) || (q == QualityLow):
		c.kind = fitKindRange
		c.rng = makeRangeFit(set)
	default:
		c.kind = fitKindCluster
		iterations := 1
		if q == QualityHigh {
			iterations = maxClusterIterations
		}
		c.cluster = makeClusterFit(set, iterations)
	}
	return c
}

// compress writes the 8 byte color block to dst. The 3-color palette is only
// available to DXT1, and only DXT1 blocks without transparent pixels also try
// the 4-color palette. On equal error, the first palette tried wins.
func (c *colorFit) compress(dst []byte, oneBitAlpha bool) {
	if oneBitAlpha {
		c.compress3(dst)
		if !c.set.transparent {
			c.compress4(dst)
		}
	} else {
		c.compress4(dst)
	}
}

func (c *colorFit) compress3(dst []byte) {
	switch c.kind {
	case fitKindSingle:
		c.single.compress3(c, dst)
	case fitKindRange:
		c.rng.compress3(c, dst)
	case fitKindCluster:
		c.cluster.compress3(c, dst)
	}
}

func (c *colorFit) compress4(dst []byte) {
	switch c.kind {
	case fitKindSingle:
		c.single.compress4(c, dst)
	case fitKindRange:
		c.rng.compress4(c, dst)
	case fitKindCluster:
		c.cluster.compress4(c, dst)
	}
}

func (c *colorFit) writeSolid3(start Vec3, end Vec3, index uint8, dst []byte) {
	indexes := [16]uint8{}
	for i := range indexes {
		indexes[i] = index
	}
	indexes = c.set.remapIndices(&indexes)
	writeColorBlock3(dst, start, end, &indexes)
}

func (c *colorFit) writeSolid4(start Vec3, end Vec3, index uint8, dst []byte) {
	indexes := [16]uint8{}
	for i := range indexes {
		indexes[i] = index
	}
	indexes = c.set.remapIndices(&indexes)
	writeColorBlock4(dst, start, end, &indexes)
}

// perceptualMetric weighs the RGB channels by the ITU-R BT.709 luma
// coefficients.
var perceptualMetric = Vec3{0.2126, 0.7152, 0.0722}
