package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"radiance-gl/libio"
	"radiance-gl/radiance"
)

type convertArgs struct {
	commonArgs
	compression compression
	flip        bool
}

func createConvertCommand() *command {

	args := convertArgs{
		commonArgs: commonArgs{
			ext: ".rgbf",
		},
		compression: compression(libio.FloatImageCompressionLZ4),
		flip:        false,
	}

	flags := flag.NewFlagSet("convert", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)

	flags.Var(&args.compression, "compression", "the pixel compression; none, lz4, fp16-lz4 or zstd")
	flags.Var(&args.compression, "c", "shorthand for compression")
	flags.BoolVar(&args.flip, "flip", args.flip, "store the bottom row first")

	return &command{
		Name: "convert",
		Help: "convert radiance hdr images to float image caches",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(&args.commonArgs)

			inputFiles := gatherInputFiles(self.Flags.Args())
			processFiles("Converted", inputFiles, func(p string) error {
				return convertFile(args, p)
			})
		},
		Flags: flags,
	}
}

func convertFile(args convertArgs, p string) (err error) {
	conf := radiance.Default
	conf.FlipVertically = args.flip
	img, err := conf.DecodeFile(p)
	if err != nil {
		return err
	}

	outFilename := outputPath(p)
	outFile, finish, err := createOutput(outFilename)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()

	if !cargs.quiet {
		fmt.Printf("Writing %dx%d %s %q ...\n", img.Width, img.Height,
			libio.FloatImageCompression(args.compression), filepath.ToSlash(filepath.Clean(outFilename)))
	}

	return libio.EncodeFloatImage(outFile, img, libio.FloatImageCompression(args.compression))
}
