package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/tga"
)

const defaultWorkers = 10

// Options controls Scan.
type Options struct {
	// Workers is the number of files decoded concurrently, defaulting to 10.
	Workers int
}

func isTGA(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".tga")
}

// undecodable reports whether err is a problem with the image itself rather
// than with the filesystem or database.
func undecodable(err error) bool {
	var fe tga.FormatError
	var ue tga.UnsupportedError
	var ioe *tga.IOError
	return errors.As(err, &fe) || errors.As(err, &ue) || errors.As(err, &ioe)
}

func (c *Catalog) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isTGA(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Catalog) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if _, err := c.Add(file); err != nil {
				if !undecodable(err) {
					errc <- err
					return
				}
				c.logger.Printf("Skipping \"%s\": %s\n", file, err)
				continue
			}
			c.logger.Printf("Added \"%s\"\n", file)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and adds every TGA file found, skipping hidden files and
// directories. Files that fail to decode are logged and skipped.
func (c *Catalog) Scan(ctx context.Context, path string, opts Options) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := c.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
