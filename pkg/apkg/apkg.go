// Package apkg opens and writes collection packages: zip archives holding a
// collection database, a media index and the media files it names.
//
// Open extracts the archive into a private workspace directory and loads
// the collection and media index from it. The caller inspects or edits the
// in-memory collection, then either calls Save, which writes everything
// back and re-packs the workspace into a new archive, or Close. Both
// release the workspace. A Package is not safe for concurrent use.
package apkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"

	"github.com/gofrs/flock"
	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/acp/internal/document"
	"github.com/mesh-intelligence/acp/internal/logging"
	"github.com/mesh-intelligence/acp/internal/sqlite"
	"github.com/mesh-intelligence/acp/pkg/types"
)

// Fixed entry names at the archive root.
const (
	CollectionFile = "collection.anki2"
	MediaFile      = "media"
)

// Package is an extracted collection package.
type Package struct {
	dir    string
	logger *slog.Logger
	closed bool

	collection *types.Collection
	media      []types.Media

	// What was loaded, to skip rewriting entries nobody changed.
	loaded      *types.Collection
	loadedMedia []types.Media
}

// Option configures Open.
type Option func(*options)

type options struct {
	workspaceDir string
	logger       *slog.Logger
}

// WithWorkspaceDir sets the parent directory for the extraction workspace.
// The default is the system temporary directory.
func WithWorkspaceDir(dir string) Option {
	return func(o *options) { o.workspaceDir = dir }
}

// WithLogger sets the logger for debug output. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Open extracts the package at path and loads its collection and media
// index. The workspace is removed again if anything fails.
func Open(ctx context.Context, path string, opts ...Option) (*Package, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.NewComponentLogger(o.logger, "apkg")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: package %s", types.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}

	dir, err := os.MkdirTemp(o.workspaceDir, "acp-workspace-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create workspace: %w", types.ErrIO, err)
	}

	p, err := load(ctx, path, dir, logger)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("workspace cleanup failed", logging.String("dir", dir), logging.Error(rmErr))
		}
		return nil, err
	}
	return p, nil
}

func load(ctx context.Context, path, dir string, logger *slog.Logger) (*Package, error) {
	// Hold a shared lock so a concurrent writer cannot swap the file mid-read.
	lock := flock.New(path)
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", types.ErrIO, path, err)
	}
	n, err := extractArchive(path, dir)
	if unlockErr := lock.Unlock(); unlockErr != nil {
		logger.Warn("package unlock failed", logging.String("path", path), logging.Error(unlockErr))
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("package extracted",
		logging.String("path", path),
		logging.String("workspace", dir),
		logging.Int("entries", n),
	)

	for _, name := range []string{CollectionFile, MediaFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingEntry, name)
		}
	}

	dbPath := filepath.Join(dir, CollectionFile)
	col, err := sqlite.Load(ctx, dbPath, sqlite.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	loaded, err := sqlite.Load(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	media, err := readMedia(filepath.Join(dir, MediaFile))
	if err != nil {
		return nil, err
	}

	return &Package{
		dir:         dir,
		logger:      logger,
		collection:  col,
		media:       media,
		loaded:      loaded,
		loadedMedia: slices.Clone(media),
	}, nil
}

// Collection returns the in-memory collection. Changes are written by Save.
func (p *Package) Collection() *types.Collection { return p.collection }

// Media returns a copy of the media index entries.
func (p *Package) Media() []types.Media { return slices.Clone(p.media) }

// SetMedia replaces the media index. Entries name files in the workspace
// root.
func (p *Package) SetMedia(entries []types.Media) { p.media = slices.Clone(entries) }

// Workspace returns the directory the package was extracted into.
func (p *Package) Workspace() string { return p.dir }

// MediaPath returns the workspace path of a media entry's file.
func (p *Package) MediaPath(m types.Media) string {
	return filepath.Join(p.dir, m.File)
}

// LookupMedia finds a media entry by display name. Names compare after NFC
// normalization, so a name typed on one platform matches the decomposed
// form written by another.
func (p *Package) LookupMedia(name string) (types.Media, bool) {
	want := norm.NFC.String(name)
	for _, m := range p.media {
		if norm.NFC.String(m.Name) == want {
			return m, true
		}
	}
	return types.Media{}, false
}

// AddMedia copies data into the workspace under the next free numeric
// condensed name and appends an index entry for it.
func (p *Package) AddMedia(name string, data []byte) (types.Media, error) {
	if p.closed {
		return types.Media{}, types.ErrClosed
	}
	used := make(map[string]bool, len(p.media))
	for _, m := range p.media {
		used[m.File] = true
	}
	next := 0
	for used[strconv.Itoa(next)] {
		next++
	}
	m := types.Media{File: strconv.Itoa(next), Name: norm.NFC.String(name)}
	if err := os.WriteFile(p.MediaPath(m), data, 0o644); err != nil {
		return types.Media{}, fmt.Errorf("%w: write media %s: %w", types.ErrIO, m.File, err)
	}
	p.media = append(p.media, m)
	return m, nil
}

// Save writes the media index and collection into the workspace, then packs
// every top-level workspace file into a new archive at dest. Entries whose
// content was not changed since Open are packed as extracted. Save releases
// the workspace whether or not it succeeds.
func (p *Package) Save(ctx context.Context, dest string) (err error) {
	if p.closed {
		return types.ErrClosed
	}
	defer func() {
		if closeErr := p.Close(); err == nil {
			err = closeErr
		}
	}()

	if !slices.Equal(p.media, p.loadedMedia) {
		if err := writeMedia(filepath.Join(p.dir, MediaFile), p.media); err != nil {
			return err
		}
		p.logger.Debug("media index written", logging.Int("entries", len(p.media)))
	}

	if !reflect.DeepEqual(p.collection, p.loaded) {
		if err := sqlite.Save(ctx, p.collection, filepath.Join(p.dir, CollectionFile), sqlite.WithLogger(p.logger)); err != nil {
			return fmt.Errorf("save collection: %w", err)
		}
	}

	n, err := writeArchive(ctx, p.dir, dest)
	if err != nil {
		return err
	}
	p.logger.Debug("package written", logging.String("dest", dest), logging.Int("entries", n))
	return nil
}

// Close removes the workspace. It is safe to call more than once.
func (p *Package) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := os.RemoveAll(p.dir); err != nil {
		return fmt.Errorf("%w: remove workspace: %w", types.ErrIO, err)
	}
	return nil
}

func readMedia(path string) ([]types.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read media index: %w", types.ErrIO, err)
	}
	media, err := document.ParseMedia(data)
	if err != nil {
		return nil, fmt.Errorf("media index: %w", err)
	}
	return media, nil
}

// writeMedia replaces the media index file.
func writeMedia(path string, media []types.Media) error {
	data, err := document.MarshalMedia(media)
	if err != nil {
		return fmt.Errorf("media index: %w: %w", types.ErrMalformedDocument, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove media index: %w", types.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write media index: %w", types.ErrIO, err)
	}
	return nil
}
