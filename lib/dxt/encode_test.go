// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dxt

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

var allFormats = []Format{FormatDXT1, FormatDXT3, FormatDXT5}

func argb(a uint32, r uint32, g uint32, b uint32) uint32 {
	return (a << 24) | (r << 16) | (g << 8) | b
}

func solidBlock(c uint32) (pixels [16]uint32) {
	for i := range pixels {
		pixels[i] = c
	}
	return pixels
}

func encodeDecodeBlock(tt *testing.T, pixels *[16]uint32, f Format, opts *EncodeOptions) (block []byte, decoded [16]uint32) {
	tt.Helper()
	block, err := Encode(pixels[:], 4, 4, f, opts)
	if err != nil {
		tt.Fatalf("f=%v: Encode: %v", f, err)
	}
	decoded, err = DecodeBlock(block, f)
	if err != nil {
		tt.Fatalf("f=%v: DecodeBlock: %v", f, err)
	}
	return block, decoded
}

func TestExactRoundTrip(tt *testing.T) {
	testCases := []uint32{
		0xFFFF_FFFF,
		0xFF00_0000,
		0xFF84_8284,
		0xFFFF_0000,
		0xFF00_FF00,
		0xFF00_00FF,
	}

	for _, f := range allFormats {
		for _, tc := range testCases {
			pixels := solidBlock(tc)
			_, got := encodeDecodeBlock(tt, &pixels, f, nil)
			if got != pixels {
				tt.Errorf("f=%v, tc=0x%08X: got %08X", f, tc, got)
			}
		}
	}
}

func TestSolidColorWithinOne(tt *testing.T) {
	colors := []uint32{}
	for v := range uint32(256) {
		colors = append(colors, argb(0xFF, v, v, v))
		colors = append(colors, argb(0xFF, v, 255-v, (v*7)&0xFF))
	}

	for _, f := range allFormats {
		for _, c := range colors {
			pixels := solidBlock(c)
			_, got := encodeDecodeBlock(tt, &pixels, f, nil)
			for i := range got {
				if d := maxChannelDiff(got[i], c); d > 1 {
					tt.Fatalf("f=%v, c=0x%08X: pixel %d: got 0x%08X", f, c, i, got[i])
				}
			}
		}
	}
}

func maxChannelDiff(p uint32, q uint32) int {
	d := 0
	for shift := 0; shift < 32; shift += 8 {
		x := int((p >> shift) & 0xFF)
		y := int((q >> shift) & 0xFF)
		d = max(d, x-y, y-x)
	}
	return d
}

func TestDXT1AllTransparent(tt *testing.T) {
	for _, c := range []uint32{0x0000_0000, 0x00FF_0000, 0x7F12_3456} {
		pixels := solidBlock(c)
		block, got := encodeDecodeBlock(tt, &pixels, FormatDXT1, nil)
		if want := []byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}; !bytes.Equal(block, want) {
			tt.Errorf("c=0x%08X: block: got % 02X, want % 02X", c, block, want)
		}
		for i := range got {
			if (got[i] >> 24) != 0 {
				tt.Errorf("c=0x%08X: pixel %d: got 0x%08X, want zero alpha", c, i, got[i])
			}
		}
	}
}

func TestDXT1PunchThrough(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		if (i & 1) == 0 {
			pixels[i] = 0x0000_0000
		} else {
			pixels[i] = 0xFFFF_0000
		}
	}

	block, got := encodeDecodeBlock(tt, &pixels, FormatDXT1, nil)
	c0 := uint16(block[0]) | (uint16(block[1]) << 8)
	c1 := uint16(block[2]) | (uint16(block[3]) << 8)
	if c0 > c1 {
		tt.Fatalf("got color0=0x%04X color1=0x%04X, want color0 <= color1", c0, c1)
	}

	indexes := unpackColorIndexes(block[4:])
	for i := range pixels {
		if (i & 1) == 0 {
			if indexes[i] != punchThroughIndex {
				tt.Errorf("pixel %d: index: got %d, want %d", i, indexes[i], punchThroughIndex)
			}
			if got[i] != 0 {
				tt.Errorf("pixel %d: got 0x%08X, want 0x00000000", i, got[i])
			}
		} else if got[i] != pixels[i] {
			tt.Errorf("pixel %d: got 0x%08X, want 0x%08X", i, got[i], pixels[i])
		}
	}
}

func TestSolidRed64x64(tt *testing.T) {
	const w, h = 64, 64
	pixels := make([]uint32, w*h)
	for i := range pixels {
		pixels[i] = 0xFFFF_0000
	}

	data, err := Encode(pixels, w, h, FormatDXT1, nil)
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	} else if len(data) != 2048 {
		tt.Fatalf("len(data): got %d, want 2048", len(data))
	}
	for i := 8; i < len(data); i += 8 {
		if !bytes.Equal(data[i:i+8], data[:8]) {
			tt.Fatalf("block %d differs from block 0: got % 02X, want % 02X", i/8, data[i:i+8], data[:8])
		}
	}

	got, err := Decode(data, w, h, FormatDXT1)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	for i := range got {
		if got[i] != 0xFFFF_0000 {
			tt.Fatalf("pixel %d: got 0x%08X, want 0xFFFF0000", i, got[i])
		}
	}
}

func TestDXT5AlphaRamp(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		pixels[i] = argb(uint32(17*i), 0x80, 0x80, 0x80)
	}

	block, got := encodeDecodeBlock(tt, &pixels, FormatDXT5, nil)
	if block[0] <= block[1] {
		tt.Fatalf("alpha0=%d alpha1=%d: got the 5-step palette, want 7-step", block[0], block[1])
	}

	const maxStep = 255 / 7
	for i := range got {
		a0, a1 := int(pixels[i]>>24), int(got[i]>>24)
		if d := max(a0-a1, a1-a0); d > maxStep {
			tt.Errorf("pixel %d: alpha: got %d, want %d (±%d)", i, a1, a0, maxStep)
		}
	}
}

func TestDXT5AlphaExtremes(tt *testing.T) {
	pixels := [16]uint32{}
	for i := range pixels {
		if (i & 1) == 0 {
			pixels[i] = 0x0000_0000
		} else {
			pixels[i] = 0xFF00_0000
		}
	}

	block, got := encodeDecodeBlock(tt, &pixels, FormatDXT5, nil)
	if block[0] > block[1] {
		tt.Fatalf("alpha0=%d alpha1=%d: got the 7-step palette, want 5-step", block[0], block[1])
	}
	for i := range got {
		if (got[i] >> 24) != (pixels[i] >> 24) {
			tt.Errorf("pixel %d: got 0x%08X, want alpha 0x%02X", i, got[i], pixels[i]>>24)
		}
	}
}

func TestEndpointOrder(tt *testing.T) {
	for _, f := range []Format{FormatDXT3, FormatDXT5} {
		for _, quality := range []Quality{QualityHigh, QualityNormal, QualityLow} {
			for name, pixels := range gradientBlocks() {
				block, _ := encodeDecodeBlock(tt, &pixels, f, &EncodeOptions{Quality: quality})
				c0 := uint16(block[8]) | (uint16(block[9]) << 8)
				c1 := uint16(block[10]) | (uint16(block[11]) << 8)
				if c0 < c1 {
					tt.Errorf("f=%v, quality=%d, tc=%q: color0=0x%04X < color1=0x%04X", f, quality, name, c0, c1)
				} else if (c0 == c1) && (!bytes.Equal(block[12:16], []byte{0, 0, 0, 0})) {
					tt.Errorf("f=%v, quality=%d, tc=%q: equal endpoints with non-zero indexes", f, quality, name)
				}
			}
		}
	}
}

func gradientBlocks() map[string][16]uint32 {
	m := map[string][16]uint32{}
	redRamp, grayRamp, diagonal, sunset, twoColors := [16]uint32{}, [16]uint32{}, [16]uint32{}, [16]uint32{}, [16]uint32{}
	for i := range 16 {
		u := uint32(i)
		x, y := u&3, u>>2
		redRamp[i] = argb(0xFF, 17*u, 0, 0)
		grayRamp[i] = argb(0xFF, 17*u, 17*u, 17*u)
		diagonal[i] = argb(0xFF, (16*x)+(16*y), 255-(32*y), 64+(16*x))
		sunset[i] = argb(0xFF, 255-(8*u), 100+(6*u), 20+(3*u))
		if (i % 3) == 0 {
			twoColors[i] = 0xFFFF_0000
		} else {
			twoColors[i] = 0xFF00_00FF
		}
	}
	m["redRamp"] = redRamp
	m["grayRamp"] = grayRamp
	m["diagonal"] = diagonal
	m["sunset"] = sunset
	m["twoColors"] = twoColors
	return m
}

func squaredColorError(a *[16]uint32, b *[16]uint32) (e int) {
	for i := range a {
		for shift := 0; shift < 24; shift += 8 {
			d := int((a[i]>>shift)&0xFF) - int((b[i]>>shift)&0xFF)
			e += d * d
		}
	}
	return e
}

func TestClusterFitBeatsRangeFit(tt *testing.T) {
	for _, f := range allFormats {
		for name, pixels := range gradientBlocks() {
			_, rangeDecoded := encodeDecodeBlock(tt, &pixels, f, &EncodeOptions{Quality: QualityLow})
			_, clusterDecoded := encodeDecodeBlock(tt, &pixels, f, &EncodeOptions{Quality: QualityHigh})
			rangeErr := squaredColorError(&pixels, &rangeDecoded)
			clusterErr := squaredColorError(&pixels, &clusterDecoded)
			if clusterErr > rangeErr {
				tt.Errorf("f=%v, tc=%q: cluster fit error %d > range fit error %d", f, name, clusterErr, rangeErr)
			}
		}
	}
}

func TestEncodeErrors(tt *testing.T) {
	pixels := make([]uint32, 64)
	testCases := []struct {
		name   string
		pixels []uint32
		w, h   int
		f      Format
		want   error
	}{
		{"zeroWidth", pixels, 0, 4, FormatDXT1, ErrInvalidDimensions},
		{"negativeHeight", pixels, 4, -4, FormatDXT1, ErrInvalidDimensions},
		{"notMultipleOf4", pixels, 6, 4, FormatDXT1, ErrInvalidDimensions},
		{"shortBuffer", pixels[:15], 4, 4, FormatDXT5, ErrBufferTooSmall},
		{"badFormat", pixels, 4, 4, Format(2), ErrBadFormat},
		{"tooLarge", pixels, 1 << 16, 4, FormatDXT1, ErrImageIsTooLarge},
	}

	for _, tc := range testCases {
		_, err := Encode(tc.pixels, tc.w, tc.h, tc.f, nil)
		if !errors.Is(err, tc.want) {
			tt.Errorf("tc=%q: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestEncodeContextCanceled(tt *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pixels := make([]uint32, 64*64)
	if _, err := EncodeContext(ctx, pixels, 64, 64, FormatDXT1, nil); !errors.Is(err, context.Canceled) {
		tt.Fatalf("got %v, want %v", err, context.Canceled)
	}
}

func TestEncodeWorkersAgree(tt *testing.T) {
	const w, h = 32, 24
	pixels := make([]uint32, w*h)
	for y := range h {
		for x := range w {
			pixels[(y*w)+x] = argb(uint32(8*y), uint32(8*x), uint32(255-(8*x)), uint32(10*y))
		}
	}

	for _, f := range allFormats {
		want, err := Encode(pixels, w, h, f, &EncodeOptions{Workers: 1})
		if err != nil {
			tt.Fatalf("f=%v: Encode(1 worker): %v", f, err)
		}
		got, err := Encode(pixels, w, h, f, &EncodeOptions{Workers: 5})
		if err != nil {
			tt.Fatalf("f=%v: Encode(5 workers): %v", f, err)
		}
		if !bytes.Equal(got, want) {
			tt.Errorf("f=%v: output depends on the number of workers", f)
		}
	}
}

func TestEncodeImagePadsEdges(tt *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 15, 26))
	for y := 20; y < 26; y++ {
		for x := 10; x < 15; x++ {
			src.SetRGBA(x, y, color.RGBA{0x00, 0xFF, 0x00, 0xFF})
		}
	}

	buf := &bytes.Buffer{}
	if err := EncodeImage(buf, src, FormatDXT1, nil); err != nil {
		tt.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.Len(), FormatDXT1.EncodedSize(5, 6); got != want {
		tt.Fatalf("length: got %d, want %d", got, want)
	}

	// Decoding the padded 8×8 image shows the edge pixels repeated.
	got, err := Decode(buf.Bytes(), 8, 8, FormatDXT1)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	for i, p := range got {
		if p != 0xFF00_FF00 {
			tt.Fatalf("pixel %d: got 0x%08X, want 0xFF00FF00", i, p)
		}
	}
}

func TestImageARGBRoundTrip(tt *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{0x12, 0x34, 0x56, 0x78})
	src.SetNRGBA(2, 1, color.NRGBA{0xFF, 0x00, 0x80, 0xFF})

	pixels, w, h := ImageToARGB(src)
	if (w != 3) || (h != 2) {
		tt.Fatalf("dimensions: got %d×%d, want 3×2", w, h)
	} else if pixels[0] != 0x7812_3456 {
		tt.Fatalf("pixels[0]: got 0x%08X, want 0x78123456", pixels[0])
	} else if pixels[5] != 0xFFFF_0080 {
		tt.Fatalf("pixels[5]: got 0x%08X, want 0xFFFF0080", pixels[5])
	}

	dst := ARGBToImage(pixels, w, h)
	if !bytes.Equal(dst.Pix, src.Pix) {
		tt.Fatalf("Pix: got % 02X, want % 02X", dst.Pix, src.Pix)
	}
}

func BenchmarkEncodeDXT1(b *testing.B) {
	benchmarkEncode(b, FormatDXT1, QualityHigh)
}

func BenchmarkEncodeDXT5(b *testing.B) {
	benchmarkEncode(b, FormatDXT5, QualityHigh)
}

func BenchmarkEncodeDXT5Low(b *testing.B) {
	benchmarkEncode(b, FormatDXT5, QualityLow)
}

func benchmarkEncode(b *testing.B, f Format, quality Quality) {
	const w, h = 256, 256
	pixels := make([]uint32, w*h)
	for y := range h {
		for x := range w {
			pixels[(y*w)+x] = argb(uint32(x^y)&0xFF, uint32(x), uint32(y), uint32((x*y)>>8)&0xFF)
		}
	}
	opts := &EncodeOptions{Quality: quality}

	b.SetBytes(int64(4 * w * h))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(pixels, w, h, f, opts); err != nil {
			b.Fatalf("Encode: %v", err)
		}
	}
}
