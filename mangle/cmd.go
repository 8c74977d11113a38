// Package mangle implements the apply command, which runs a filter chain
// over every bitmap of a folder.
package mangle

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"bmpfx/bitmap"
	"bmpfx/fileop"
	"bmpfx/filter"
	"bmpfx/parallel"
)

type CLICmd struct {
	Scan   string   `help:"Source folder to scan" default:"."`
	Dest   string   `help:"Destination folder for filtered bitmaps. Relative to scan dir if not absolute." default:"filtered"`
	Filter []string `help:"Filters to apply, in order (${filters})" sep:","`
	Recipe string   `help:"YAML recipe listing filter steps, run before --filter ones"`
	Force  bool     `help:"Overwrite existing destination files. Needed when dest is the scan dir." default:"false"`
	Steps  []string `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	c.Steps = c.Steps[:0]
	if c.Recipe != "" {
		r, err := LoadRecipe(c.Recipe)
		if err != nil {
			return err
		}
		c.Steps = append(c.Steps, r.Names()...)
	}
	for _, name := range c.Filter {
		name = strings.TrimSpace(name)
		if _, err := filter.Lookup(name); err != nil {
			return err
		}
		c.Steps = append(c.Steps, name)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("no filters given")
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	slog.Info("applying", "filters", c.Steps, "workers", pool.Workers())

	var processedCount, skippedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(file.Name()), ".bmp") {
			skippedCount.Add(1)
			slog.Debug("skipping", "file", file.Name())
			continue
		}

		pool.Do(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, file.Name()))
			if err := c.process(logger, file.Name()); err != nil {
				errCount.Add(1)
				logger.Error("could not filter bitmap", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "skipped", skippedCount.Load(), "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) process(logger *slog.Logger, fileName string) error {
	src := filepath.Join(c.Scan, fileName)
	if err := fileop.CheckSource(src); err != nil {
		return err
	}
	if !c.Force {
		if err := fileop.CheckDest(filepath.Join(c.Dest, fileName)); err != nil {
			return err
		}
	}

	bm, err := bitmap.Load(src)
	if err != nil {
		return err
	}
	logger.Debug("decoded", "width", bm.InfoHeader.Width, "height", bm.InfoHeader.Height,
		"bpp", bm.InfoHeader.BitCount)

	if err = filter.Apply(bm, c.Steps...); err != nil {
		return err
	}

	return fileop.WriteAtomic(c.Dest, fileName, func(w io.Writer) error {
		return bitmap.Encode(w, bm)
	})
}
