package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/tga"
	"github.com/bodgit/tga/catalog"
	"github.com/bodgit/tga/convert"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/encoding/charmap"
)

const defaultDB = "tga.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openCatalog(c *cli.Context) (*catalog.Catalog, error) {
	return catalog.New(c.String("db"), newLogger(c))
}

// imageID returns the ID field that follows the header, decoded as
// ISO 8859-1.
func imageID(r io.Reader, h *tga.Header) (string, error) {
	b := make([]byte, h.IDLength)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	h, err := tga.ParseHeader(f)
	if err != nil {
		return cli.Exit(err, 1)
	}

	id, err := imageID(f, h)
	if err != nil {
		return cli.Exit(err, 1)
	}

	orientation := "top to bottom"
	if h.BottomToTop() {
		orientation = "bottom to top"
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Type:         %s\n", h.ImageType)
	fmt.Fprintf(w, "Size:         %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(w, "Depth:        %d bits\n", h.BitsPerPixel)
	fmt.Fprintf(w, "Orientation:  %s\n", orientation)
	if h.HasColorMap {
		fmt.Fprintf(w, "Color map:    %d entries of %d bits at offset %d\n", h.ColorMapLength, h.ColorMapEntrySize, h.ColorMapDataOffset())
	}
	fmt.Fprintf(w, "Pixel data:   offset %d\n", h.PixelDataOffset())
	if id != "" {
		fmt.Fprintf(w, "ID:           %q\n", id)
	}

	return nil
}

func outputOptions(c *cli.Context, dst string) (convert.Options, error) {
	opts := convert.Options{Colors: c.Int("colors")}

	var err error
	if c.IsSet("format") {
		opts.Format, err = convert.ParseFormat(c.String("format"))
	} else {
		opts.Format, err = convert.FormatFromPath(dst)
	}
	return opts, err
}

func writeImage(m image.Image, file string, opts convert.Options) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := convert.Encode(w, m, opts); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func convertImage(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dst := c.Args().Get(0), c.Args().Get(1)

	opts, err := outputOptions(c, dst)
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Open(src)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	rd, err := tga.NewReader(bufio.NewReader(f))
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := rd.Image(nil)
	if err != nil {
		return cli.Exit(err, 1)
	}

	newLogger(c).Printf("Decoded \"%s\", %dx%d %s\n", src, m.Width, m.Height, m.Layout)

	if err := writeImage(m, dst, opts); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func index(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer cat.Close()

	if err := cat.Scan(context.Background(), c.Args().First(), catalog.Options{Workers: c.Int("workers")}); err != nil {
		return cli.Exit(err, 1)
	}

	files, images, err := cat.Stats()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "%d files, %d distinct images\n", files, images)

	return nil
}

func export(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dst := c.Args().Get(0), c.Args().Get(1)

	opts, err := outputOptions(c, dst)
	if err != nil {
		return cli.Exit(err, 1)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer cat.Close()

	m, err := cat.Lookup(src)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(m, dst, opts); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format, png or bmp; guessed from the file extension if unset",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce the output to at most this many colors",
		},
	}
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "tga"
	app.Usage = "Truevision TGA image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TGA_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"TGA_WORKERS"},
			Value:   10,
			Usage:   "number of images decoded concurrently when indexing",
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
			Usage:     "Print the header of a TGA file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "convert",
			Usage:     "Convert a TGA file to PNG or BMP",
			ArgsUsage: "SOURCE DESTINATION",
			Flags:     outputFlags(),
			Action:    convertImage,
		},
		{
			Name:      "index",
			Usage:     "Scan a directory and add every TGA file to the catalog",
			ArgsUsage: "DIRECTORY",
			Action:    index,
		},
		{
			Name:      "export",
			Usage:     "Write an image from the catalog to PNG or BMP",
			ArgsUsage: "FILE DESTINATION",
			Flags:     outputFlags(),
			Action:    export,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
