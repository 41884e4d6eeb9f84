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

// Vec3 is an RGB color (or a direction in RGB space) with each channel
// nominally in the range [0, 1].
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Mul is the component-wise product.
func (v Vec3) Mul(w Vec3) Vec3 { return Vec3{v.X * w.X, v.Y * w.Y, v.Z * w.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(w Vec3) float32   { return (v.X * w.X) + (v.Y * w.Y) + (v.Z * w.Z) }
func (v Vec3) LengthSq() float32    { return v.Dot(v) }

// Clamp01 clamps each channel to [0, 1].
func (v Vec3) Clamp01() Vec3 {
	return Vec3{clamp01(v.X), clamp01(v.Y), clamp01(v.Z)}
}

// Vec4 carries an RGB triple in X, Y, Z and a weight (or squared
// interpolation factor) in W, so that the cluster fit can accumulate both in
// one pass.
type Vec4 struct {
	X, Y, Z, W float32
}

func (v Vec4) Add(w Vec4) Vec4 { return Vec4{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.W + w.W} }
func (v Vec4) Sub(w Vec4) Vec4 { return Vec4{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.W - w.W} }

// Mul is the component-wise product.
func (v Vec4) Mul(w Vec4) Vec4 { return Vec4{v.X * w.X, v.Y * w.Y, v.Z * w.Z, v.W * w.W} }

func (v Vec4) Scale(s float32) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// MulAdd returns (v * w) + u, component-wise.
func (v Vec4) MulAdd(w Vec4, u Vec4) Vec4 {
	return Vec4{(v.X * w.X) + u.X, (v.Y * w.Y) + u.Y, (v.Z * w.Z) + u.Z, (v.W * w.W) + u.W}
}

// SplatW returns a Vec4 with every component equal to v.W.
func (v Vec4) SplatW() Vec4 { return Vec4{v.W, v.W, v.W, v.W} }

func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Sym3x3 is a symmetric 3×3 matrix, holding only the upper triangle:
//
//	[0] [1] [2]
//	    [3] [4]
//	        [5]
type Sym3x3 [6]float32

// weightedCovariance returns the covariance matrix of points, each point
// weighted by the corresponding element of weights.
func weightedCovariance(points []Vec3, weights []float32) (m Sym3x3) {
	total := float32(0)
	centroid := Vec3{}
	for i, p := range points {
		total += weights[i]
		centroid = centroid.Add(p.Scale(weights[i]))
	}
	if total > flt32Epsilon {
		centroid = centroid.Scale(1 / total)
	}

	for i, p := range points {
		a := p.Sub(centroid)
		b := a.Scale(weights[i])
		m[0] += a.X * b.X
		m[1] += a.X * b.Y
		m[2] += a.X * b.Z
		m[3] += a.Y * b.Y
		m[4] += a.Y * b.Z
		m[5] += a.Z * b.Z
	}
	return m
}

// flt32Epsilon is the difference between 1 and the next larger float32.
const flt32Epsilon = 0x1p-23

// PrincipalComponent returns an eigenvector (not necessarily normalized) for
// the eigenvalue of m with the largest magnitude.
//
// It solves the characteristic cubic in closed form. When all three
// eigenvalues coincide, every direction is an eigenvector and it returns
// (1, 1, 1).
func (m *Sym3x3) PrincipalComponent() Vec3 {
	c0 := (m[0] * m[3] * m[5]) +
		(2 * m[1] * m[2] * m[4]) -
		(m[0] * m[4] * m[4]) -
		(m[3] * m[2] * m[2]) -
		(m[5] * m[1] * m[1])
	c1 := (m[0] * m[3]) + (m[0] * m[5]) + (m[3] * m[5]) -
		(m[1] * m[1]) - (m[2] * m[2]) - (m[4] * m[4])
	c2 := m[0] + m[3] + m[5]

	// Depress the cubic: t**3 + a*t + b, with lambda = t + c2/3.
	a := c1 - ((1.0 / 3.0) * c2 * c2)
	b := ((-2.0 / 27.0) * c2 * c2 * c2) + ((1.0 / 3.0) * c1 * c2) - c0

	q := (0.25 * b * b) + ((1.0 / 27.0) * a * a * a)

	if flt32Epsilon < q {
		return Vec3{1, 1, 1}

	} else if q < -flt32Epsilon {
		theta := atan2f(sqrtf(-q), -0.5*b)
		rho := sqrtf((0.25 * b * b) - q)

		rt := powf(rho, 1.0/3.0)
		ct := cosf(theta / 3)
		st := sinf(theta / 3)

		const sqrt3 = 1.7320508
		l1 := ((1.0 / 3.0) * c2) + (2 * rt * ct)
		l2 := ((1.0 / 3.0) * c2) - (rt * (ct + (sqrt3 * st)))
		l3 := ((1.0 / 3.0) * c2) - (rt * (ct - (sqrt3 * st)))

		if absf(l2) > absf(l1) {
			l1 = l2
		}
		if absf(l3) > absf(l1) {
			l1 = l3
		}
		return m.multiplicity1Eigenvector(l1)
	}

	rt := float32(0)
	if b < 0 {
		rt = -powf(-0.5*b, 1.0/3.0)
	} else {
		rt = powf(0.5*b, 1.0/3.0)
	}
	l1 := ((1.0 / 3.0) * c2) + rt // Repeated.
	l2 := ((1.0 / 3.0) * c2) - (2 * rt)

	if absf(l1) > absf(l2) {
		return m.multiplicity2Eigenvector(l1)
	}
	return m.multiplicity1Eigenvector(l2)
}

// multiplicity1Eigenvector returns a column of the adjugate of (m - λI). For
// a simple eigenvalue every non-zero column is an eigenvector. It picks the
// column holding the largest magnitude entry, which is the one least affected
// by cancellation.
func (m *Sym3x3) multiplicity1Eigenvector(evalue float32) Vec3 {
	n := *m
	n[0] -= evalue
	n[3] -= evalue
	n[5] -= evalue

	u := Sym3x3{
		(n[3] * n[5]) - (n[4] * n[4]),
		(n[2] * n[4]) - (n[1] * n[5]),
		(n[1] * n[4]) - (n[2] * n[3]),
		(n[0] * n[5]) - (n[2] * n[2]),
		(n[1] * n[2]) - (n[4] * n[0]),
		(n[0] * n[3]) - (n[1] * n[1]),
	}

	mi := 0
	mc := absf(u[0])
	for i := 1; i < 6; i++ {
		if c := absf(u[i]); c > mc {
			mc, mi = c, i
		}
	}

	switch mi {
	case 0:
		return Vec3{u[0], u[1], u[2]}
	case 1, 3:
		return Vec3{u[1], u[3], u[4]}
	}
	return Vec3{u[2], u[4], u[5]}
}

// multiplicity2Eigenvector returns a vector orthogonal to the largest row of
// (m - λI), which for a repeated eigenvalue lies in its eigenspace.
func (m *Sym3x3) multiplicity2Eigenvector(evalue float32) Vec3 {
	n := *m
	n[0] -= evalue
	n[3] -= evalue
	n[5] -= evalue

	mi := 0
	mc := absf(n[0])
	for i := 1; i < 6; i++ {
		if c := absf(n[i]); c > mc {
			mc, mi = c, i
		}
	}

	switch mi {
	case 0, 1:
		return Vec3{-n[1], n[0], 0}
	case 2:
		return Vec3{n[2], 0, -n[0]}
	case 3, 4:
		return Vec3{0, -n[4], n[3]}
	}
	return Vec3{0, -n[5], n[4]}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}

func atan2f(y float32, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }
func cosf(x float32) float32             { return float32(math.Cos(float64(x))) }
func powf(x float32, y float32) float32  { return float32(math.Pow(float64(x), float64(y))) }
func sinf(x float32) float32             { return float32(math.Sin(float64(x))) }
func sqrtf(x float32) float32            { return float32(math.Sqrt(float64(x))) }

// roundToGrid clamps v to [0, 1] and snaps each channel to the nearest value
// representable in RGB565: multiples of 1/31, 1/63 and 1/31.
func roundToGrid(v Vec3) Vec3 {
	v = v.Clamp01()
	return Vec3{
		truncf((31*v.X)+0.5) * (1.0 / 31.0),
		truncf((63*v.Y)+0.5) * (1.0 / 63.0),
		truncf((31*v.Z)+0.5) * (1.0 / 31.0),
	}
}

func truncf(x float32) float32 { return float32(math.Trunc(float64(x))) }
