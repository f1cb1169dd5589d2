package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"radiance-gl/radiance"

	"github.com/nfnt/resize"
)

type previewArgs struct {
	commonArgs
	gamma    float64
	scale    float64
	reinhard bool
	width    int
}

func createPreviewCommand() *command {

	args := previewArgs{
		commonArgs: commonArgs{
			ext: ".png",
		},
		gamma:    2.2,
		scale:    1.0,
		reinhard: false,
		width:    0,
	}

	flags := flag.NewFlagSet("preview", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)

	flags.Float64Var(&args.gamma, "gamma", args.gamma, "gamma correction value")
	flags.Float64Var(&args.scale, "scale", args.scale, "brightness scale factor")
	flags.BoolVar(&args.reinhard, "reinhard", args.reinhard, "apply reinhard tonemapping")
	flags.IntVar(&args.width, "width", args.width, "downscale to this width in px, 0 keeps the size")

	return &command{
		Name: "preview",
		Help: "render radiance hdr images to png",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 || args.gamma <= 0 || args.width < 0 {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(&args.commonArgs)

			inputFiles := gatherInputFiles(self.Flags.Args())
			processFiles("Rendered", inputFiles, func(p string) error {
				return previewFile(args, p)
			})
		},
		Flags: flags,
	}
}

func previewFile(args previewArgs, p string) (err error) {
	img, err := radiance.DecodeFile(p)
	if err != nil {
		return err
	}

	if args.reinhard {
		img.Reinhard()
	}
	var rgba image.Image = img.ToIntImage(float32(args.gamma), float32(args.scale)).ToRGBA()

	if args.width > 0 && args.width < img.Width {
		rgba = resize.Resize(uint(args.width), 0, rgba, resize.Lanczos3)
	}

	outFilename := outputPath(p)
	outFile, finish, err := createOutput(outFilename)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()

	if !cargs.quiet {
		b := rgba.Bounds()
		fmt.Printf("Writing %dx%d png %q ...\n", b.Dx(), b.Dy(), filepath.ToSlash(filepath.Clean(outFilename)))
	}

	return png.Encode(outFile, rgba)
}
