// Package inspect implements the info command, a header-only scan of the
// bitmaps in a folder.
package inspect

import (
	"bufio"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"bmpfx/bitmap"
	"bmpfx/fileop"
)

type CLICmd struct {
	Scan string `help:"Source folder to scan" default:"."`
	All  bool   `help:"Inspect every file, not only the ones with a .bmp extension" default:"false"`
}

// Stats tallies a scan.
type Stats struct {
	Portrait  int
	Landscape int
	Errors    int
	ByDepth   map[int]int
	Bytes     int64
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

	return nil
}

func (c *CLICmd) Run() error {
	stats, err := c.scan()
	if err != nil {
		return err
	}

	slog.Info("stats", "portraits", stats.Portrait, "landscapes", stats.Landscape, "errors", stats.Errors,
		"total", stats.Portrait+stats.Landscape, "bytes", stats.Bytes)
	for _, bpp := range slices.Sorted(maps.Keys(stats.ByDepth)) {
		slog.Info("depth", "bpp", bpp, "count", stats.ByDepth[bpp])
	}

	if stats.Errors > 0 {
		return fmt.Errorf("error processing %d files", stats.Errors)
	}
	return nil
}

func (c *CLICmd) scan() (Stats, error) {
	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return Stats{}, fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	stats := Stats{ByDepth: map[int]int{}}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !c.All && !strings.EqualFold(filepath.Ext(file.Name()), ".bmp") {
			continue
		}

		name := filepath.Join(c.Scan, file.Name())
		conf, err := readConfig(name)
		if err != nil {
			stats.Errors++
			slog.Error("could not read bitmap", "file", name, "error", err)
			continue
		}

		slog.Info("bitmap", "file", name, "width", conf.Width, "height", conf.Height,
			"bpp", conf.BitsPerPixel, "stride", conf.Stride, "size", conf.FileSize)

		if conf.Height > conf.Width {
			stats.Portrait++
		} else {
			stats.Landscape++
		}
		stats.ByDepth[conf.BitsPerPixel]++
		stats.Bytes += int64(conf.FileSize)
	}
	return stats, nil
}

func readConfig(name string) (bitmap.Config, error) {
	if err := fileop.CheckSource(name); err != nil {
		return bitmap.Config{}, err
	}

	f, err := os.Open(name)
	if err != nil {
		return bitmap.Config{}, fmt.Errorf("could not open bitmap %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close bitmap", "file", name, "error", closeErr)
		}
	}()

	return bitmap.DecodeConfig(bufio.NewReader(f))
}
