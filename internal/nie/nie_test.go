// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package nie

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestEncodeBN4ARGB(tt *testing.T) {
	got, err := EncodeBN4ARGB([]uint32{0x80112233, 0xFF445566}, 2, 1)
	if err != nil {
		tt.Fatalf("EncodeBN4ARGB: %v", err)
	}
	want := []byte{
		0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '4',
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x33, 0x22, 0x11, 0x80,
		0x66, 0x55, 0x44, 0xFF,
	}
	if !bytes.Equal(got, want) {
		tt.Fatalf("got  % 02X\nwant % 02X", got, want)
	}

	if _, err := EncodeBN4ARGB([]uint32{0}, 2, 1); err != ErrBadArgument {
		tt.Fatalf("short pixels: got %v, want %v", err, ErrBadArgument)
	}
}

func TestEncodeBN4(tt *testing.T) {
	m := image.NewGray(image.Rect(5, 5, 7, 6))
	m.SetGray(5, 5, color.Gray{Y: 0x12})
	m.SetGray(6, 5, color.Gray{Y: 0xEF})

	got, err := EncodeBN4(m)
	if err != nil {
		tt.Fatalf("EncodeBN4: %v", err)
	}
	want, _ := EncodeBN4ARGB([]uint32{0xFF121212, 0xFFEFEFEF}, 2, 1)
	if !bytes.Equal(got, want) {
		tt.Fatalf("got  % 02X\nwant % 02X", got, want)
	}
}
