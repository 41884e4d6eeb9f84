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

func TestWeightedCovariance(tt *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}}
	weights := []float32{1, 1}
	got := weightedCovariance(points, weights)
	want := Sym3x3{0.5, 0, 0, 0, 0, 0}
	if got != want {
		tt.Fatalf("got %v, want %v", got, want)
	}
}

func TestPrincipalComponent(tt *testing.T) {
	testCases := []struct {
		name string
		m    Sym3x3
		want Vec3
	}{
		{"distinct", Sym3x3{3, 0, 0, 1, 0, 0.5}, Vec3{1, 0, 0}},
		{"distinctZ", Sym3x3{0.1, 0, 0, 0.1, 0, 0.9}, Vec3{0, 0, 1}},
		{"repeated", Sym3x3{2, 1, 0, 2, 0, 1}, Vec3{1, 1, 0}},
		{"rankOne", Sym3x3{1, 1, 1, 1, 1, 1}, Vec3{1, 1, 1}},
	}

	for _, tc := range testCases {
		got := tc.m.PrincipalComponent()
		if got.LengthSq() == 0 {
			tt.Errorf("tc=%q: got the zero vector", tc.name)
			continue
		}

		// Eigenvectors are only defined up to scale and sign.
		d := got.Dot(tc.want)
		cos2 := (d * d) / (got.LengthSq() * tc.want.LengthSq())
		if cos2 < 0.999 {
			tt.Errorf("tc=%q: got %v, want parallel to %v", tc.name, got, tc.want)
		}
	}
}

func TestRoundToGrid(tt *testing.T) {
	testCases := []struct {
		in   Vec3
		want uint16
	}{
		{Vec3{0, 0, 0}, 0x0000},
		{Vec3{1, 1, 1}, 0xFFFF},
		{Vec3{-0.5, 2, 0.5}, 0x07F0},
		{Vec3{1, 0, 0}, 0xF800},
	}

	for _, tc := range testCases {
		if got := floatTo565(roundToGrid(tc.in)); got != tc.want {
			tt.Errorf("in=%v: got 0x%04X, want 0x%04X", tc.in, got, tc.want)
		}
	}
}
