package pnmview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/pnmview/pnm"
	"go.uber.org/zap"
)

const defaultWorkers = 10

// Scanner populates a Catalog from a directory tree.
type Scanner struct {
	catalog *Catalog
	logger  *zap.SugaredLogger
	workers int
}

// NewScanner returns a Scanner adding images to c.
func NewScanner(c *Catalog, logger *zap.SugaredLogger) *Scanner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scanner{
		catalog: c,
		logger:  logger,
		workers: defaultWorkers,
	}
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".pgm", ".ppm", ".pnm":
		return true
	}
	return false
}

func isFormatError(err error) bool {
	return errors.Is(err, pnm.ErrUnsupportedMagic) || errors.Is(err, pnm.ErrMalformedHeader) || errors.Is(err, pnm.ErrTruncatedData)
}

func (s *Scanner) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
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
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			if err := ctx.Err(); err != nil {
				return err
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

func (s *Scanner) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			e, err := s.catalog.Add(file)
			switch {
			case err == nil:
				s.logger.Debugw("Cataloged image", "file", file, "sha1", e.SHA1, "magic", e.Header.Magic, "width", e.Header.Width, "height", e.Header.Height)
			case isFormatError(err):
				s.logger.Infow("Skipping invalid image", "file", file, "error", err)
			default:
				errc <- err
				return
			}

			if ctx.Err() != nil {
				return
			}
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

// Scan walks path and adds every PGM and PPM image found to the catalog.
// Files that fail to decode are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < s.workers; i++ {
		errc, err := s.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
