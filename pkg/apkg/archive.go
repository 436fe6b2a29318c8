package apkg

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// creatorUnix is the "version made by" host byte for Unix.
const creatorUnix = 3

// extractArchive unpacks every entry of the zip at path into dir and
// returns the number of entries.
func extractArchive(path, dir string) (int, error) {
	zr, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) {
		zr.Close()
		return 0, fmt.Errorf("%w: %s: %w", types.ErrUnsafePath, path, err)
	}
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) {
			return 0, fmt.Errorf("%w: %s: %w", types.ErrMalformedArchive, path, err)
		}
		return 0, fmt.Errorf("%w: open %s: %w", types.ErrIO, path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := extractEntry(f, dir); err != nil {
			return 0, err
		}
	}
	return len(zr.File), nil
}

func extractEntry(f *zip.File, dir string) error {
	isDir := strings.HasSuffix(f.Name, "/")
	rel := filepath.FromSlash(strings.TrimSuffix(f.Name, "/"))
	if !filepath.IsLocal(rel) || strings.Contains(f.Name, `\`) {
		return fmt.Errorf("%w: %q", types.ErrUnsafePath, f.Name)
	}
	dest := filepath.Join(dir, rel)

	if isDir {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", types.ErrIO, f.Name, err)
		}
	} else if err := extractFile(f, dest); err != nil {
		return err
	}

	if runtime.GOOS != "windows" && f.CreatorVersion>>8 == creatorUnix {
		if err := os.Chmod(dest, f.Mode().Perm()); err != nil {
			return fmt.Errorf("%w: set mode on %s: %w", types.ErrIO, f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", types.ErrIO, f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %w", types.ErrMalformedArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", types.ErrIO, f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) {
			return fmt.Errorf("%w: read entry %s: %w", types.ErrMalformedArchive, f.Name, err)
		}
		return fmt.Errorf("%w: extract %s: %w", types.ErrIO, f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", types.ErrIO, f.Name, err)
	}
	return nil
}

// writeArchive packs every regular file at the top of dir into a new zip at
// dest, stored uncompressed and in name order. The archive is written to a
// temporary file beside dest and renamed into place, so dest is either
// the old file or the complete new one.
func writeArchive(ctx context.Context, dir, dest string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: read workspace: %w", types.ErrIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".apkg-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: creating temp file: %w", types.ErrIO, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	zw := zip.NewWriter(tmp)
	n := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := addFile(zw, filepath.Join(dir, e.Name()), e.Name()); err != nil {
			return fail(err)
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return fail(fmt.Errorf("%w: finishing archive: %w", types.ErrIO, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("%w: syncing temp file: %w", types.ErrIO, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("%w: closing temp file: %w", types.ErrIO, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("%w: renaming temp file: %w", types.ErrIO, err)
	}
	return n, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", types.ErrIO, name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", types.ErrIO, name, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: header for %s: %w", types.ErrIO, name, err)
	}
	hdr.Name = name
	hdr.Method = zip.Store

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("%w: add %s: %w", types.ErrIO, name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("%w: write %s: %w", types.ErrIO, name, err)
	}
	return nil
}
