// Package prefsfile persists table preferences as files,
// one file per preferences key.
package prefsfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/domonda/go-types/charset"
	"github.com/fsnotify/fsnotify"
	fs "github.com/ungerik/go-fs"

	headtable "github.com/domonda/go-headtable"
)

// ErrNotLocal is returned by Watch for files
// that are not on the local file system.
var ErrNotLocal = errors.New("preferences file is not on the local file system")

var _ headtable.PreferencesAdapter = new(Adapter)

// Adapter is a headtable.PreferencesAdapter storing
// each preferences document in a file within a directory.
type Adapter struct {
	dir    fs.File
	format Format
	logger *slog.Logger
}

// NewAdapter returns an Adapter storing files in dir.
// The directory is created with the first Persist.
func NewAdapter(dir fs.File, format Format) (*Adapter, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	return &Adapter{dir: dir, format: format, logger: headtable.DefaultLogger}, nil
}

// WithLogger sets the logger for persist, restore and watch events.
func (a *Adapter) WithLogger(logger *slog.Logger) *Adapter {
	a.logger = logger
	return a
}

func (a *Adapter) Format() Format { return a.format }

// File returns the file of the preferences stored under key.
// Characters of key that are not safe in file names are replaced by '_'.
func (a *Adapter) File(key string) fs.File {
	return a.dir.Join(sanitizeKey(key) + a.format.Ext())
}

func sanitizeKey(key string) string {
	if key == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, key)
}

func (a *Adapter) Persist(key string, doc *headtable.PreferencesDocument) error {
	data, err := a.format.Marshal(doc)
	if err != nil {
		return err
	}
	if err = a.dir.MakeAllDirs(); err != nil {
		return err
	}
	file := a.File(key)
	if err = file.WriteAll(data); err != nil {
		return err
	}
	a.logger.Debug("Wrote preferences file", slog.String("file", string(file)))
	return nil
}

// Restore returns nil without error if no file exists for key.
// A leading UTF-8 byte order mark is ignored.
func (a *Adapter) Restore(key string) (*headtable.PreferencesDocument, error) {
	file := a.File(key)
	if !file.Exists() {
		return nil, nil
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	data = charset.TrimBOM(data, charset.BOMUTF8)
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	doc, err := a.format.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	a.logger.Debug("Read preferences file", slog.String("file", string(file)))
	return doc, nil
}

// Watch sends a value to the returned channel whenever the file
// of key is written, created, renamed or removed, including writes by Persist.
// Pending changes are coalesced into one value.
// The channel is closed when ctx is done.
func (a *Adapter) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	path := a.File(key).LocalPath()
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotLocal, a.File(key))
	}
	path = filepath.Clean(path)
	if err := a.dir.MakeAllDirs(); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory because editors and atomic writes replace the file
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("Preferences file watcher error", slog.String("file", path), slog.Any("err", err))
			}
		}
	}()
	return changes, nil
}
