package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"radiance-gl/libio"
	"radiance-gl/radiance"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type compression libio.FloatImageCompression

func (c *compression) String() string {
	return libio.FloatImageCompression(*c).String()
}

func (c *compression) Set(s string) error {
	parsed, err := libio.ParseCompression(s)
	if err != nil {
		return err
	}
	*c = compression(parsed)
	return nil
}

type commonArgs struct {
	out     string
	quiet   bool
	supress bool
	verbose bool
	jobs    int
	ext     string
	suffix  string
}

var cargs *commonArgs

type command struct {
	Run   func(self *command)
	Name  string
	Help  string
	Flags *flag.FlagSet
}

var commands = []*command{}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n\n", exe)
	fmt.Fprintf(os.Stderr, "The commands are:\n\n")
	longest := slices.MaxFunc(commands, func(a, b *command) int {
		return len(a.Name) - len(b.Name)
	})
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "    %*s%s\n", -len(longest.Name)-4, c.Name, c.Help)
	}
	fmt.Fprintln(os.Stderr, "")
	os.Exit(1)
}

func printCommandUsage(cmd *command, suffix string) {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s %s [arguments]%s\n\n", exe, cmd.Name, suffix)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	cmd.Flags.SetOutput(os.Stderr)
	cmd.Flags.PrintDefaults()
	os.Exit(1)
}

func main() {
	commands = append(commands, createInfoCommand())
	commands = append(commands, createConvertCommand())
	commands = append(commands, createPreviewCommand())

	slices.SortFunc(commands, func(a, b *command) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(os.Args) < 2 {
		printGeneralUsage()
	}

	var cmd *command
	for _, c := range commands {
		if strings.EqualFold(c.Name, os.Args[1]) {
			cmd = c
			break
		}
	}
	if cmd == nil {
		printGeneralUsage()
	}

	err := cmd.Flags.Parse(os.Args[2:])
	harderr(err)

	cmd.Run(cmd)
}

func registerCommonFlags(flags *flag.FlagSet, args *commonArgs) {
	flags.StringVar(&args.out, "out", args.out, "the output directory")
	flags.StringVar(&args.out, "o", args.out, "shorthand for out")
	flags.BoolVar(&args.quiet, "quiet", args.quiet, "disables informational logging")
	flags.BoolVar(&args.quiet, "q", args.quiet, "shorthand for quiet")
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")
	flags.BoolVar(&args.verbose, "verbose", args.verbose, "logs decoder details to stderr")
	flags.IntVar(&args.jobs, "jobs", runtime.NumCPU(), "the number of files processed in parallel")
	flags.IntVar(&args.jobs, "j", runtime.NumCPU(), "shorthand for jobs")
	flags.StringVar(&args.ext, "ext", args.ext, "the result file extension")
	flags.StringVar(&args.suffix, "suffix", args.suffix, "the result file suffix")
}

func setCommonArgs(args *commonArgs) {
	cargs = args
	if args.jobs < 1 {
		args.jobs = 1
	}
	if args.verbose {
		radiance.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if args.out == "" {
		var err error
		args.out, err = os.Getwd()
		harderr(err)
	}

	_, err := os.Stat(args.out)
	if err != nil {
		harderr(fmt.Errorf("cannon stat output directory: %w", err))
	}
}

func gatherInputFiles(globs []string) []string {
	matched := []string{}

	for _, g := range globs {
		m, err := filepath.Glob(g)
		softerr(err)
		matched = append(matched, m...)
	}

	return matched
}

// processFiles runs fn for every input on up to cargs.jobs goroutines and
// reports the number of successful files.
func processFiles(verb string, inputFiles []string, fn func(p string) error) int {
	var g errgroup.Group
	g.SetLimit(cargs.jobs)

	results := make([]error, len(inputFiles))
	start := time.Now()
	for i, p := range inputFiles {
		i, p := i, p
		if !cargs.quiet {
			fmt.Printf("Processing file %d/%d %q ...\n", i+1, len(inputFiles), filepath.ToSlash(filepath.Clean(p)))
		}
		g.Go(func() error {
			results[i] = fn(p)
			return nil
		})
	}
	g.Wait()

	success := 0
	for i, err := range results {
		if err == nil {
			success++
			continue
		}
		softerr(fmt.Errorf("%s: %w", filepath.ToSlash(filepath.Clean(inputFiles[i])), err))
	}
	if !cargs.quiet {
		took := float32(time.Since(start).Milliseconds()) / 1000
		fmt.Printf("%s %d/%d files in %.3f seconds\n", verb, success, len(inputFiles), took)
	}
	return success
}

// outputPath maps an input file to its result file in the output directory.
func outputPath(p string) string {
	base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	return filepath.Join(cargs.out, base+cargs.suffix+cargs.ext)
}

// createOutput opens the result file. finish closes it and removes it when
// err is not nil.
func createOutput(name string) (f *os.File, finish func(err error) error, err error) {
	f, err = os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nil, err
	}
	finish = func(err error) error {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(name)
		}
		return err
	}
	return f, finish, nil
}

func softerr(err error) bool {
	if err != nil && !cargs.supress {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true
	}
	return false
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
