// Copyright 2025 The Dxt Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// dxtpack decodes and encodes DXT1, DXT3 and DXT5 textures held in the PVR and
// PVRZ file formats.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/nigeltao/dxt/internal/nie"
	"github.com/nigeltao/dxt/lib/dxt"
	"github.com/nigeltao/dxt/lib/pvr"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	decodeFlag  = flag.Bool("decode", false, "whether to decode the input")
	encodeFlag  = flag.Bool("encode", false, "whether to encode the input")
	infoFlag    = flag.Bool("info", false, "whether to print the input's PVR header")
	formatFlag  = flag.String("format", "", "encoding format: dxt1, dxt3 or dxt5")
	outputFlag  = flag.String("output", "", "output format")
	qualityFlag = flag.String("quality", "high", "encoding quality: high, normal or low")
	regionFlag  = flag.String("region", "", "decode only the x,y,w,h pixel rectangle")
	verboseFlag = flag.Bool("v", false, "whether to log progress to stderr")
	workersFlag = flag.Int("workers", 0, "number of encoding goroutines; 0 means GOMAXPROCS")
)

const usageStr = `dxtpack decodes and encodes DXT textures in the PVR file format.

Usage: choose one of

    dxtpack -decode [path]
    dxtpack -encode [path]
    dxtpack -info   [path]

The path to the input image file is optional. If omitted, stdin is read.

When decoding you can also pass these flags (before the path):

    -output=nie-bn4
    -output=png (this is the default)
    -region=x,y,w,h

When encoding you can also pass these flags (before the path):

    -format=dxt1 (the default for opaque images)
    -format=dxt3
    -format=dxt5 (the default for other images)
    -output=pvr  (this is the default)
    -output=pvrz
    -quality=high|normal|low
    -workers=N

Pass -v to log progress to stderr.

The output image (in NIE/PNG or PVR/PVRZ format) is written to stdout. The
-info output is text.

Decode inputs PVR/PVRZ and outputs NIE/PNG.
Encode inputs BMP, GIF, JPEG, PNG, TIFF or WEBP and outputs PVR/PVRZ.
`

var (
	ErrBadOutputFlag  = errors.New("main: bad -output flag")
	ErrBadQualityFlag = errors.New("main: bad -quality flag")
	ErrBadRegionFlag  = errors.New("main: bad -region flag")
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	if *verboseFlag {
		dxt.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	switch {
	case *decodeFlag && !*encodeFlag && !*infoFlag:
		return decode(os.Stdout, inFile)
	case !*decodeFlag && *encodeFlag && !*infoFlag:
		return encode(os.Stdout, inFile)
	case !*decodeFlag && !*encodeFlag && *infoFlag:
		return info(os.Stdout, inFile)
	}
	return errors.New("must specify exactly one of -decode, -encode, -info or -help")
}

func decode(w io.Writer, r io.Reader) error {
	switch *outputFlag {
	case "", "nie-bn4", "png":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	t, err := pvr.Read(r)
	if err != nil {
		return err
	}
	x, y, width, height := 0, 0, int(t.Header.Width), int(t.Header.Height)
	if *regionFlag != "" {
		if _, err := fmt.Sscanf(*regionFlag, "%d,%d,%d,%d", &x, &y, &width, &height); err != nil {
			return fmt.Errorf("%w: %w", ErrBadRegionFlag, err)
		}
	}
	pixels, err := t.DecodeRegion(x, y, width, height)
	if err != nil {
		return err
	}

	if *outputFlag == "nie-bn4" {
		dst, err := nie.EncodeBN4ARGB(pixels, width, height)
		if err != nil {
			return err
		}
		_, err = w.Write(dst)
		return err
	}
	return png.Encode(w, dxt.ARGBToImage(pixels, width, height))
}

func encode(w io.Writer, r io.Reader) error {
	options := &pvr.EncodeOptions{
		DXT: &dxt.EncodeOptions{Workers: *workersFlag},
	}
	switch *outputFlag {
	case "", "pvr":
		// No-op.
	case "pvrz":
		options.Compress = true
	default:
		return ErrBadOutputFlag
	}
	switch *qualityFlag {
	case "", "high":
		options.DXT.Quality = dxt.QualityHigh
	case "normal":
		options.DXT.Quality = dxt.QualityNormal
	case "low":
		options.DXT.Quality = dxt.QualityLow
	default:
		return ErrBadQualityFlag
	}
	if *formatFlag != "" {
		f, err := dxt.ParseFormat(*formatFlag)
		if err != nil {
			return err
		}
		options.Format = f
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return err
	}
	return pvr.Encode(w, src, options)
}

func info(w io.Writer, r io.Reader) error {
	t, err := pvr.Read(r)
	if err != nil {
		return err
	}
	h := t.Header
	f, _ := h.Format()
	_, err = fmt.Fprintf(w, "format:      %v\n"+
		"width:       %d\n"+
		"height:      %d\n"+
		"depth:       %d\n"+
		"surfaces:    %d\n"+
		"faces:       %d\n"+
		"mip-maps:    %d\n"+
		"color space: %d\n"+
		"flags:       0x%08X\n"+
		"metadata:    %d bytes\n"+
		"payload:     %d bytes (%d expected)\n",
		f, h.Width, h.Height, h.Depth,
		h.NumSurfaces, h.NumFaces, h.NumMipMaps,
		h.ColorSpace, h.Flags, len(h.MetaData),
		len(t.Payload), h.PayloadSize())
	return err
}
