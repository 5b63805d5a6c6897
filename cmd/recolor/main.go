package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/setanarut/recolor"
	"github.com/setanarut/recolor/utils"
)

const usage = `recolor: gray out or tint the color clusters of an image.

Usage:
  recolor -in photo.jpg -out gray.jpg [-k 10] [-ranks 1-9] [-tint #ff8800]

Ranks count clusters by population, 1 being the smallest. By default every
cluster except the largest is replaced.

`

func main() {
	var (
		configFile = flag.String("config", "", "YAML config file; flags override its values")
		source     = flag.String("in", "", "Source image, - for stdin")
		dest       = flag.String("out", "", "Destination image, - for stdout")
		format     = flag.String("format", "png", "Output format when writing to stdout")
		quality    = flag.Int("quality", utils.DefaultSaveOptions().Quality, "JPEG quality (1-100)")
		k          = flag.Int("k", recolor.DefaultPaletteSize, "Number of color clusters")
		ranks      = flag.String("ranks", "", "Ranks to recolor, e.g. 1,2,3 or 1-9 or none (default all but the largest)")
		factors    = flag.String("factors", "", "Channel weights r,g,b (default 1/3,1/3,1/3)")
		tint       = flag.String("tint", "", "Tint color: hex, dominant or kmeans; overrides -factors")
		iterations = flag.Int("iter", recolor.DefaultIterations, "Maximum k-means iterations")
		seed       = flag.Uint64("seed", recolor.DefaultSeed, "Seed for centroid initialization")
		workers    = flag.Int("workers", 1, "Goroutines used by the assignment step")
		swatch     = flag.String("swatch", "", "Write the ranked cluster palette to this image")
		verbose    = flag.Bool("v", false, "Log clustering progress")
	)

	log.SetFlags(0)
	log.SetPrefix("recolor: ")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := utils.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = utils.LoadConfig(*configFile); err != nil {
			log.Fatalf("config %s: %v", *configFile, err)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["in"] {
		cfg.Input = *source
	}
	if set["out"] {
		cfg.Output = *dest
	}
	if set["quality"] {
		cfg.Quality = *quality
	}
	if set["k"] {
		cfg.PaletteSize = *k
		if !set["ranks"] {
			cfg.Ranks = recolor.DefaultRanks(*k)
		}
	}
	if set["ranks"] {
		r, err := utils.ParseRanks(*ranks)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Ranks = r
	}
	if set["factors"] {
		f, err := utils.ParseFactors(*factors)
		if err != nil {
			log.Fatal(err)
		}
		cfg.RGBFactors = f
	}
	if set["tint"] {
		cfg.Tint = *tint
	}
	if set["iter"] {
		cfg.Iterations = *iterations
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["swatch"] {
		cfg.Swatch = *swatch
	}

	if cfg.Input == "" || cfg.Output == "" {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.Input == utils.PipeName && term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatalln("`-` should be used with a pipe for stdin")
	}
	if cfg.Output == utils.PipeName && term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalln("`-` should be used with a pipe for stdout")
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "recolor: ", 0)
	}
	if err := run(cfg, utils.SaveOptions{Quality: cfg.Quality, Format: outputFormat(cfg.Output, *format)}, logger); err != nil {
		log.Fatal(err)
	}
}

func run(cfg utils.Config, opt utils.SaveOptions, logger *log.Logger) error {
	start := time.Now()
	img, err := utils.ReadImage(cfg.Input)
	if err != nil {
		return err
	}

	if cfg.Tint != "" {
		c, err := utils.ParseTint(cfg.Tint, img)
		if err != nil {
			return err
		}
		if cfg.RGBFactors, err = recolor.FactorsFromColor(c); err != nil {
			return err
		}
		logf(logger, "tint %s -> factors %.3f", c.Hex(), cfg.RGBFactors)
	}

	rc := recolor.NewRecolorer(cfg.Workers, logger)
	res, err := rc.RecolorDetailed(recolor.GridFromImage(img), cfg.ReplacementSpec)
	if err != nil {
		return err
	}
	if err := utils.SaveImage(res.Grid.Image(), cfg.Output, opt); err != nil {
		return err
	}
	if cfg.Swatch != "" {
		if p := res.Palette(); len(p) > 0 {
			if err := utils.SavePalette(p, 64, cfg.Swatch); err != nil {
				return err
			}
		} else {
			logf(logger, "no clustering was run, skipping swatch")
		}
	}
	logf(logger, "done in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

func outputFormat(path, fallback string) string {
	if path == utils.PipeName {
		return fallback
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
