// Package fileop holds the file handling shared by the batch commands.
package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// CheckSource fails unless src is a regular file.
func CheckSource(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot process non-regular file %q: %s", info.Name(), info.Mode().String())
	}
	return nil
}

// CheckDest fails if dest already exists.
func CheckDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	return fmt.Errorf("destination file already exists: %q", info.Name())
}

// WriteAtomic creates destName inside destDir. The content is produced by
// write into a temporary file in the same folder, which is renamed over
// destName only once write, sync and close all succeeded.
func WriteAtomic(destDir, destName string, write func(io.Writer) error) (err error) {
	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	tmpName := outFile.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary file", "name", tmpName, "error", rmErr)
			}
		}
	}()

	if err = write(outFile); err != nil {
		outFile.Close()
		return fmt.Errorf("could not write %q: %w", destName, err)
	}
	if err = outFile.Sync(); err != nil {
		outFile.Close()
		return fmt.Errorf("could not flush temporary destination %q: %w", destName, err)
	}
	if err = outFile.Close(); err != nil {
		return fmt.Errorf("could not close temporary destination %q: %w", destName, err)
	}
	if err = os.Rename(tmpName, filepath.Join(destDir, destName)); err != nil {
		return fmt.Errorf("could not rename destination file %q: %w", destName, err)
	}
	return nil
}

// ReplaceExt swaps the extension of name for ext, which includes the dot.
func ReplaceExt(name, ext string) string {
	return name[:len(name)-len(filepath.Ext(name))] + ext
}
