package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/benoitkugler/svgdom/svgpdf"
	"github.com/benoitkugler/svgdom/svgraster"
)

type envKey struct{}

// env is shared by the commands, and prepared after
// the command line has been parsed.
type env struct {
	cfg *Config
	log *zap.Logger
}

func envFromContext(ctx context.Context) *env {
	return ctx.Value(envKey{}).(*env)
}

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)

	var err error
	if e.cfg, err = loadConfiguration(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if mode := cmd.String("mode"); mode != "" {
		if err := e.cfg.Mode.UnmarshalText([]byte(mode)); err != nil {
			return ctx, err
		}
	}
	if cmd.Bool("debug") {
		e.cfg.Logging.Level = "debug"
	}
	e.log = e.cfg.Logging.Prepare()
	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.Stringer("mode", e.cfg.Mode))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	e := envFromContext(ctx)
	if e.log == nil {
		return nil
	}
	// syncing stderr fails on some platforms, ignore it
	if err := e.log.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return fmt.Errorf("unable to sync logs: %w", err)
	}
	return nil
}

func parseSource(ctx context.Context, cmd *cli.Command) (*svgdoc.Document, error) {
	e := envFromContext(ctx)
	if cmd.NArg() == 0 {
		return nil, errors.New("missing SOURCE argument")
	}
	source := cmd.Args().First()
	doc, err := svgdoc.ParseFile(source, svgdoc.WithMode(e.cfg.Mode), svgdoc.WithLogger(e.log))
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", source, err)
	}
	return doc, nil
}

func runTree(ctx context.Context, cmd *cli.Command) error {
	doc, err := parseSource(ctx, cmd)
	if err != nil {
		return err
	}
	return printTree(os.Stdout, doc, cmd.Bool("attributes"))
}

func runRender(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	doc, err := parseSource(ctx, cmd)
	if err != nil {
		return err
	}

	width, height := e.cfg.Raster.Width, e.cfg.Raster.Height
	if w := cmd.Int("width"); w > 0 {
		width = w
	}
	if h := cmd.Int("height"); h > 0 {
		height = h
	}
	if width == 0 {
		width = int(doc.Width + 0.5)
	}
	if height == 0 {
		height = int(doc.Height + 0.5)
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("empty image size %dx%d", width, height)
	}

	dest := cmd.Args().Get(1)
	if dest == "" {
		return errors.New("missing DESTINATION argument")
	}
	img := svgraster.Rasterize(doc, width, height)
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if err = png.Encode(out, img); err != nil {
		return fmt.Errorf("unable to encode %s: %w", dest, err)
	}
	e.log.Info("Image rendered", zap.String("destination", dest), zap.Int("width", width), zap.Int("height", height))
	return nil
}

func runPDF(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	doc, err := parseSource(ctx, cmd)
	if err != nil {
		return err
	}
	dest := cmd.Args().Get(1)
	if dest == "" {
		return errors.New("missing DESTINATION argument")
	}
	if err := svgpdf.RenderToPDF(doc, dest); err != nil {
		return fmt.Errorf("unable to write %s: %w", dest, err)
	}
	e.log.Info("PDF written", zap.String("destination", dest))
	return nil
}

func outputConfiguration(ctx context.Context, _ *cli.Command) error {
	data, err := dumpConfiguration(envFromContext(ctx).cfg)
	if err != nil {
		return fmt.Errorf("unable to dump configuration: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "svginspect",
		Usage:           "parses SVG files and shows their typed element tree",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "parse `MODE`: permissive, warn or strict (overrides configuration)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages, including content ignored in permissive mode"},
		},
		Commands: []*cli.Command{
			{
				Name:      "tree",
				Usage:     "Prints the element tree of an SVG file",
				Action:    runTree,
				ArgsUsage: "SOURCE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "attributes", Aliases: []string{"a"}, Usage: "also print the typed attributes"},
				},
			},
			{
				Name:      "render",
				Usage:     "Rasterizes an SVG file to PNG",
				Action:    runRender,
				ArgsUsage: "SOURCE DESTINATION",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Usage: "image width in pixels (default: nominal document width)"},
					&cli.IntFlag{Name: "height", Usage: "image height in pixels (default: nominal document height)"},
				},
			},
			{
				Name:      "pdf",
				Usage:     "Draws an SVG file on a one page PDF",
				Action:    runPDF,
				ArgsUsage: "SOURCE DESTINATION",
			},
			{
				Name:   "dumpconfig",
				Usage:  "Dumps the active configuration (YAML)",
				Action: outputConfiguration,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.WithValue(context.Background(), envKey{}, &env{}), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "svginspect: %v\n", err)
		stop()
		os.Exit(1)
	}
}
