// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

// maxClusterIterations bounds how many times the cluster fit re-sorts the
// points along an improved axis.
const maxClusterIterations = 8

// clusterFit sorts the points along an axis and then tries every way of
// cutting that ordering into contiguous runs, one run per palette entry. For
// each cut, the endpoints that minimize the weighted squared error have a
// closed form solution.
//
// With more than one iteration, the axis from the best start endpoint to the
// best end endpoint seeds a new ordering, until an iteration fails to improve
// or an ordering repeats.
type clusterFit struct {
	set        *colorSet
	iterations int
	axis       Vec3

	order [maxClusterIterations][16]uint8

	// weighted holds (w*r, w*g, w*b, w) for each point, in the current order.
	weighted [16]Vec4
	xsumWsum Vec4
}

var (
	halfHalf2          = Vec4{0.5, 0.5, 0.5, 0.25}
	oneThirdOneThird2  = Vec4{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 9.0}
	twoThirdsTwoThirds = Vec4{2.0 / 3.0, 2.0 / 3.0, 2.0 / 3.0, 4.0 / 9.0}
)

const twoNinths = 2.0 / 9.0

func makeClusterFit(set *colorSet, iterations int) (f clusterFit) {
	n := set.count
	cov := weightedCovariance(set.points[:n], set.weights[:n])
	f.set = set
	f.iterations = iterations
	f.axis = cov.PrincipalComponent()
	return f
}

// constructOrdering stable-sorts the points by their projection onto axis. It
// returns false if that ordering was already tried by an earlier iteration.
func (f *clusterFit) constructOrdering(axis Vec3, iteration int) bool {
	n := f.set.count
	order := &f.order[iteration]

	dps := [16]float32{}
	for i := range n {
		dps[i] = f.set.points[i].Dot(axis)
		order[i] = uint8(i)
	}
	for i := range n {
		for j := i; (j > 0) && (dps[j] < dps[j-1]); j-- {
			dps[j], dps[j-1] = dps[j-1], dps[j]
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for it := range iteration {
		if f.order[it] == *order {
			return false
		}
	}

	f.xsumWsum = Vec4{}
	for i := range n {
		j := order[i]
		p, w := f.set.points[j], f.set.weights[j]
		x := Vec4{p.X * w, p.Y * w, p.Z * w, w}
		f.weighted[i] = x
		f.xsumWsum = f.xsumWsum.Add(x)
	}
	return true
}

// solve returns the least squares endpoints, snapped to the RGB565 grid, and
// their error. The XYZ parts of alphax and betax sum each point scaled by how
// much of the start (or end) endpoint its palette entry takes. Their W parts
// sum the squares of those factors, and alphabeta sums their products.
//
// It returns ok == false when the system is singular, which happens when
// every point lands on a single endpoint.
func solve(alphax Vec4, betax Vec4, alphabeta float32) (a Vec3, b Vec3, e float32, ok bool) {
	alpha2, beta2 := alphax.W, betax.W
	denom := (alpha2 * beta2) - (alphabeta * alphabeta)
	if denom == 0 {
		return Vec3{}, Vec3{}, 0, false
	}
	factor := 1 / denom
	ax, bx := alphax.Vec3(), betax.Vec3()

	a = ax.Scale(beta2).Sub(bx.Scale(alphabeta)).Scale(factor)
	b = bx.Scale(alpha2).Sub(ax.Scale(alphabeta)).Scale(factor)
	a = roundToGrid(a)
	b = roundToGrid(b)

	e1 := a.Mul(a).Scale(alpha2).Add(b.Mul(b).Scale(beta2))
	e2 := a.Mul(b).Scale(alphabeta).Sub(a.Mul(ax))
	e3 := e2.Sub(b.Mul(bx))
	e4 := e3.Scale(2).Add(e1)
	return a, b, perceptualMetric.Dot(e4), true
}

func (f *clusterFit) compress3(c *colorFit, dst []byte) {
	n := f.set.count
	f.constructOrdering(f.axis, 0)

	bestStart, bestEnd := Vec3{}, Vec3{}
	bestError := c.bestError
	bestI, bestJ, bestIteration := 0, 0, 0

	for iteration := 0; ; {
		// The runs are [0, i) at the start, [i, j) at the midpoint and
		// [j, n) at the end.
		part0 := Vec4{}
		for i := range n {
			part1 := Vec4{}
			for j := i; ; j++ {
				part2 := f.xsumWsum.Sub(part1).Sub(part0)

				alphax := part1.MulAdd(halfHalf2, part0)
				betax := part1.MulAdd(halfHalf2, part2)
				alphabeta := part1.W * halfHalf2.W

				if a, b, e, ok := solve(alphax, betax, alphabeta); ok && (e < bestError) {
					bestStart, bestEnd, bestError = a, b, e
					bestI, bestJ, bestIteration = i, j, iteration
				}

				if j == n {
					break
				}
				part1 = part1.Add(f.weighted[j])
			}
			part0 = part0.Add(f.weighted[i])
		}

		if bestIteration != iteration {
			break
		}
		iteration++
		if iteration == f.iterations {
			break
		}
		if !f.constructOrdering(bestEnd.Sub(bestStart), iteration) {
			break
		}
	}

	if bestError < c.bestError {
		order := &f.order[bestIteration]
		unordered := [16]uint8{}
		for m := range n {
			switch {
			case m < bestI:
				unordered[order[m]] = 0
			case m < bestJ:
				unordered[order[m]] = 2
			default:
				unordered[order[m]] = 1
			}
		}
		indexes := c.set.remapIndices(&unordered)
		writeColorBlock3(dst, bestStart, bestEnd, &indexes)
		c.bestError = bestError
	}
}

func (f *clusterFit) compress4(c *colorFit, dst []byte) {
	n := f.set.count
	f.constructOrdering(f.axis, 0)

	bestStart, bestEnd := Vec3{}, Vec3{}
	bestError := c.bestError
	bestI, bestJ, bestK, bestIteration := 0, 0, 0, 0

	for iteration := 0; ; {
		// The runs are [0, i) at the start, [i, j) one third along, [j, k)
		// two thirds along and [k, n) at the end.
		part0 := Vec4{}
		for i := range n {
			part1 := Vec4{}
			for j := i; ; j++ {
				part2, kmin := Vec4{}, j
				if j == 0 {
					part2, kmin = f.weighted[0], 1
				}
				for k := kmin; ; k++ {
					part3 := f.xsumWsum.Sub(part2).Sub(part1).Sub(part0)

					alphax := part2.MulAdd(oneThirdOneThird2, part1.MulAdd(twoThirdsTwoThirds, part0))
					betax := part1.MulAdd(oneThirdOneThird2, part2.MulAdd(twoThirdsTwoThirds, part3))
					alphabeta := twoNinths * (part1.W + part2.W)

					if a, b, e, ok := solve(alphax, betax, alphabeta); ok && (e < bestError) {
						bestStart, bestEnd, bestError = a, b, e
						bestI, bestJ, bestK, bestIteration = i, j, k, iteration
					}

					if k == n {
						break
					}
					part2 = part2.Add(f.weighted[k])
				}

				if j == n {
					break
				}
				part1 = part1.Add(f.weighted[j])
			}
			part0 = part0.Add(f.weighted[i])
		}

		if bestIteration != iteration {
			break
		}
		iteration++
		if iteration == f.iterations {
			break
		}
		if !f.constructOrdering(bestEnd.Sub(bestStart), iteration) {
			break
		}
	}

	if bestError < c.bestError {
		order := &f.order[bestIteration]
		unordered := [16]uint8{}
		for m := range n {
			switch {
			case m < bestI:
				unordered[order[m]] = 0
			case m < bestJ:
				unordered[order[m]] = 2
			case m < bestK:
				unordered[order[m]] = 3
			default:
				unordered[order[m]] = 1
			}
		}
		indexes := c.set.remapIndices(&unordered)
		writeColorBlock4(dst, bestStart, bestEnd, &indexes)
		c.bestError = bestError
	}
}
