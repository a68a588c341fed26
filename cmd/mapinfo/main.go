package main

import (
	"flag"
	"fmt"
	"os"

	"lighting-renderer/internal/imageio"
	"lighting-renderer/internal/raster"
)

func main() {
	source := flag.String("source", "", "Source image to check maps against")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mapinfo [-source image] map...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var src *raster.NRGBABuffer
	if *source != "" {
		var err error
		src, err = imageio.Load(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("source %s: %dx%d alpha=%v gray=%v\n",
			*source, src.Width(), src.Height(), src.HasAlpha(), src.IsGray())
	}

	failed := false
	for _, path := range flag.Args() {
		m, err := imageio.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}

		fmt.Printf("%s: %dx%d alpha=%v gray=%v\n", path, m.Width(), m.Height(), m.HasAlpha(), m.IsGray())
		if src != nil {
			fmt.Printf("  bump map: %s\n", verdict(m.Width() == src.Width() && m.Height() == src.Height(), "size differs from source"))
		}
		fmt.Printf("  environment map: %s\n", verdict(!m.IsGray() && !m.HasAlpha(), "must be RGB without alpha"))
	}

	if failed {
		os.Exit(1)
	}
}

func verdict(ok bool, reason string) string {
	if ok {
		return "usable"
	}
	return "not usable (" + reason + ")"
}
