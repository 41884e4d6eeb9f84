// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pvr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/nigeltao/dxt/lib/dxt"
)

// maxInflatedSize is the largest uncompressed size that Inflate accepts. It
// fits a 32768×32768 DXT5 top level plus its header.
const maxInflatedSize = (1 << 30) + (1 << 20)

// IsPVRZ returns whether data looks like a PVRZ file: a little endian uint32
// uncompressed size followed by a zlib stream.
func IsPVRZ(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	size := readU32LE(data[0:])
	if (size == Signature) || (size < FixedHeaderSize) || (size > maxInflatedSize) {
		return false
	}
	cmf, flg := data[4], data[5]
	check := (uint32(cmf) << 8) | uint32(flg)
	return ((cmf & 0x0F) == 8) && ((check % 31) == 0)
}

// Inflate converts PVRZ data to PVR data.
func Inflate(data []byte) ([]byte, error) {
	if !IsPVRZ(data) {
		return nil, ErrNotAPVRZFile
	}
	size := int64(readU32LE(data[0:]))

	zr, err := zlib.NewReader(bytes.NewReader(data[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAPVRZFile, err)
	}
	defer zr.Close()

	// Read one byte more than claimed, to detect an overlong stream without
	// trusting the size for the allocation.
	out, err := io.ReadAll(io.LimitReader(zr, size+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAPVRZFile, err)
	} else if int64(len(out)) != size {
		return nil, fmt.Errorf("%w: inflated %d bytes, want %d", ErrNotAPVRZFile, len(out), size)
	}

	dxt.Logger().Debug("pvr: inflated PVRZ", "compressed", len(data), "uncompressed", size)
	return out, nil
}

// Deflate converts PVR data to PVRZ data. level is a zlib compression level,
// such as zlib.BestCompression.
func Deflate(data []byte, level int) ([]byte, error) {
	if (len(data) < FixedHeaderSize) || (len(data) > maxInflatedSize) {
		return nil, fmt.Errorf("%w: PVR data size %d", ErrBadArgument, len(data))
	}

	buf := &bytes.Buffer{}
	size := [4]byte{}
	writeU32LE(size[:], uint32(len(data)))
	buf.Write(size[:])

	zw, err := zlib.NewWriterLevel(buf, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	} else if err := zw.Close(); err != nil {
		return nil, err
	}

	dxt.Logger().Debug("pvr: deflated PVRZ", "uncompressed", len(data), "compressed", buf.Len())
	return buf.Bytes(), nil
}
