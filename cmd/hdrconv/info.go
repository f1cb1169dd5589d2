package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"radiance-gl/libio"
	"radiance-gl/radiance"
)

func createInfoCommand() *command {

	args := commonArgs{}

	flags := flag.NewFlagSet("info", flag.ExitOnError)

	registerCommonFlags(flags, &args)

	return &command{
		Name: "info",
		Help: "print the size and luminance range of radiance hdr images",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(&args)

			inputFiles := gatherInputFiles(self.Flags.Args())
			processFiles("Inspected", inputFiles, func(p string) error {
				line, err := infoFile(p)
				if err == nil {
					fmt.Println(line)
				}
				return err
			})
		},
		Flags: flags,
	}
}

type luminanceStats struct {
	Min, Max, Mean float32
}

func measureLuminance(img *libio.FloatImage) luminanceStats {
	lum := img.Luminance()
	if len(lum) == 0 {
		return luminanceStats{}
	}

	stats := luminanceStats{Min: lum[0], Max: lum[0]}
	var sum float64
	for _, l := range lum {
		stats.Min = min(stats.Min, l)
		stats.Max = max(stats.Max, l)
		sum += float64(l)
	}
	stats.Mean = float32(sum / float64(len(lum)))
	return stats
}

func infoFile(p string) (string, error) {
	img, err := radiance.DecodeFile(p)
	if err != nil {
		return "", err
	}

	stats := measureLuminance(img)
	return fmt.Sprintf("%s: %dx%d luminance min=%g max=%g mean=%g",
		filepath.ToSlash(filepath.Clean(p)), img.Width, img.Height, stats.Min, stats.Max, stats.Mean), nil
}
