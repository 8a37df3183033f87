package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/segmentio/ksuid"

	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/palette"
	"github.com/chaos-io/cutout/preprocess"
	"github.com/chaos-io/cutout/rembg"
	"github.com/chaos-io/cutout/server"
	"github.com/chaos-io/cutout/util"
	nhttp "github.com/chaos-io/cutout/util/http"
)

const usage = `Usage:
  cutout -in <path|url> [-out file.png] [flags]
  cutout serve [-config file] [-addr :8080]

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		err = serve(ctx, os.Args[2:])
	} else {
		err = run(ctx, os.Args[1:])
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "cutout.yaml", "config file")
	addr := fs.String("addr", "", "listen address, overrides config")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	setupLogger(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	s, err := server.New(cfg)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cutout", flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	in := fs.String("in", "", "input image path or http(s) url")
	out := fs.String("out", "", "output png, default ./output/<ksuid>.png")
	configPath := fs.String("config", "cutout.yaml", "config file")
	tolerance := fs.Float64("tolerance", -1, "color tolerance (5-90), overrides config")
	feather := fs.Int("feather", -1, "feather radius (0-12), overrides config")
	maxSize := fs.Int("max-size", -1, "downscale so the longest edge is at most N, 0 disables")
	trim := fs.String("trim", "", "trim to subject: bbox or square")
	keepAlpha := fs.Bool("keep-alpha", false, "skip removal when the input already has transparency")
	showPalette := fs.Bool("palette", false, "print the foreground palette")
	saveSettings := fs.Bool("save-settings", false, "write tolerance/feather back to the config file")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	setupLogger(*verbose)

	if *in == "" {
		fs.Usage()
		return fmt.Errorf("missing -in")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *tolerance >= 0 {
		cfg.Matte.Tolerance = *tolerance
	}
	if *feather >= 0 {
		cfg.Matte.Feather = *feather
	}
	if *maxSize >= 0 {
		cfg.Image.MaxSize = *maxSize
	}
	if *trim != "" {
		cfg.Image.Trim = *trim
	}
	if *keepAlpha {
		cfg.Image.SkipTransparent = true
	}
	cfg.Matte = cfg.Matte.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	img, err := util.LoadImage(ctx, nhttp.NewHTTPClient(), *in)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	p := preprocess.NewPreprocessor(
		rembg.NewFloodFillRemover(cfg.Matte.Options()),
		cfg.Image.MaxSize,
		preprocess.TrimMode(cfg.Image.Trim),
	)
	p.SkipTransparent = cfg.Image.SkipTransparent
	done := util.Trace("remove background")
	result, err := p.Process(ctx, img)
	done()
	if err != nil {
		return err
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(cfg.Server.OutputDir, ksuid.New().String()+".png")
	}
	if err := util.SaveImage(outPath, result.Image); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	if result.Skipped {
		log.Printf("Done! input already transparent, output %s", outPath)
	} else {
		log.Printf("Done! background %s, output %s", result.Background, outPath)
	}

	if *showPalette {
		method, err := palette.ParseMethod(cfg.Image.PaletteMethod)
		if err != nil {
			return err
		}
		colors := palette.Hexes(palette.Extract(result.Image, cfg.Image.PaletteSize, method))
		fmt.Println(strings.Join(colors, " "))
	}

	if *saveSettings {
		if err := cfg.Save(*configPath); err != nil {
			return err
		}
		slog.Info("settings saved", "config", *configPath,
			"tolerance", cfg.Matte.Tolerance, "feather", cfg.Matte.Feather)
	}
	return nil
}
