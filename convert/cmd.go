// Package convert implements the convert command, which moves pictures
// between the native BMP codec and the other image formats.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"bmpfx/fileop"
	"bmpfx/parallel"
)

type CLICmd struct {
	Scan   string `help:"Source folder to scan" default:"."`
	Dest   string `help:"Destination folder for converted pictures. Relative to scan dir if not absolute." default:"converted"`
	Format string `help:"Output format. 'same' keeps the source format, writing png for formats without an encoder." enum:"bmp24,bmp32,png,jpeg,gif,tiff,same" default:"bmp24"`
	Force  bool   `help:"Overwrite existing destination files" default:"false"`
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

	claimed := &destinations{names: map[string]string{}}
	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		pool.Do(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, file.Name()))
			if err := c.process(logger, file.Name(), claimed); err != nil {
				errCount.Add(1)
				logger.Error("could not convert picture", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// destinations records which source produced each output name during a
// run. Sources sharing a stem, such as a.png and a.gif, map to the same
// output and only the first one is converted.
type destinations struct {
	mu    sync.Mutex
	names map[string]string
}

func (d *destinations) claim(destName, src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if other, ok := d.names[destName]; ok {
		return fmt.Errorf("destination %q is already converted from %q", destName, other)
	}
	d.names[destName] = src
	return nil
}

func (c *CLICmd) process(logger *slog.Logger, fileName string, claimed *destinations) error {
	src := filepath.Join(c.Scan, fileName)
	if err := fileop.CheckSource(src); err != nil {
		return err
	}

	pic, err := load(src)
	if err != nil {
		return err
	}

	format := outputFormat(c.Format, pic)
	destName := fileop.ReplaceExt(fileName, extension(format))
	if err := claimed.claim(destName, fileName); err != nil {
		return err
	}
	if !c.Force {
		if err := fileop.CheckDest(filepath.Join(c.Dest, destName)); err != nil {
			return err
		}
	}
	logger.Debug("converting", "from", pic.format, "to", format, "dest", destName)

	return fileop.WriteAtomic(c.Dest, destName, func(w io.Writer) error {
		return encode(w, pic, format)
	})
}
