package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/pnmview"
	"github.com/bodgit/pnmview/export"
	"github.com/bodgit/pnmview/layout"
	"github.com/bodgit/pnmview/pnm"
	"github.com/bodgit/pnmview/surface"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultDB = "pnmview.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) (*zap.SugaredLogger, error) {
	if !c.Bool("verbose") {
		return zap.NewNop().Sugar(), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func decodeOptions(c *cli.Context) pnm.Options {
	if c.Bool("big-endian") {
		return pnm.Options{ByteOrder: binary.BigEndian}
	}
	return pnm.Options{ByteOrder: binary.LittleEndian}
}

func decodeFile(c *cli.Context, file string) (*pnm.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return pnm.DecodeWithOptions(f, decodeOptions(c))
}

func writeImage(file string, m image.Image, format export.Format) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := export.Encode(f, m, format); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	file := c.Args().First()
	m, err := decodeFile(c, file)
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Title:       %s\n", pnmview.Title(file))
	fmt.Fprintf(c.App.Writer, "Format:      %s\n", m.Magic)
	fmt.Fprintf(c.App.Writer, "Dimensions:  %dx%d\n", m.Width, m.Height)
	fmt.Fprintf(c.App.Writer, "Maximum:     %d\n", m.MaxVal)
	fmt.Fprintf(c.App.Writer, "Layout:      %s\n", m.Layout())
	fmt.Fprintf(c.App.Writer, "Sample size: %d\n", m.SampleSize())
	fmt.Fprintf(c.App.Writer, "Aspect:      %.4f\n", m.AspectRatio())

	return nil
}

func render(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger, err := newLogger(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer logger.Sync()

	format, err := export.FormatFromPath(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := decodeFile(c, c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	width, height := c.Int("width"), c.Int("height")
	if width <= 0 {
		width = m.Width
	}
	if height <= 0 {
		height = m.Height
	}

	r := surface.New(width, height)
	s, err := pnmview.NewSession(m, r, width, height, logger.Named(pnmview.Title(c.Args().First())))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("fill") {
		if err := s.OnToggleFitMode(); err != nil {
			return cli.Exit(err, 1)
		}
	}

	if err := writeImage(c.Args().Get(1), r.Image(), format); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	out := c.Args().Get(1)

	var (
		format export.Format
		err    error
	)
	if c.IsSet("format") {
		format, err = export.ParseFormat(c.String("format"))
	} else {
		format, err = export.FormatFromPath(out)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := decodeFile(c, c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(out, m.Image(), format); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger, err := newLogger(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer logger.Sync()

	catalog, err := pnmview.NewCatalog(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer catalog.Close()

	if err := pnmview.NewScanner(catalog, logger).Scan(context.Background(), c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}

	n, err := catalog.Count()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "%d images cataloged\n", n)

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pnmview"
	app.Usage = "PGM and PPM image utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PNMVIEW_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.BoolFlag{
			Name:    "big-endian",
			EnvVars: []string{"PNMVIEW_BIG_ENDIAN"},
			Usage:   "read 16-bit samples most significant byte first",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print the header of an image",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "render",
			Usage:     "Render an image as it would appear in a window",
			ArgsUsage: "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Usage: "window width, defaults to the image width",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "window height, defaults to the image height",
				},
				&cli.BoolFlag{
					Name:  "fill",
					Usage: "stretch the image to fill the window (" + layout.FillWindow.String() + " mode)",
				},
			},
			Action: render,
		},
		{
			Name:      "export",
			Usage:     "Convert an image to PNG, GIF or PPM",
			ArgsUsage: "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Usage: "output format, defaults to the output file extension",
				},
			},
			Action: convert,
		},
		{
			Name:      "scan",
			Usage:     "Scan a directory and catalog every image found",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
