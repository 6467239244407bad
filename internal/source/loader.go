// Package source loads résumés and job descriptions from local paths,
// directories, or any location the afs storage abstraction understands
// (file://, mem://, s3://, gs://, ...).
package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/pkg/utils"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"go.uber.org/zap"
)

// ErrNoDocuments is returned when the given locations contain no accepted files.
var ErrNoDocuments = errors.New("no documents found")

// Loader reads documents through afs.
type Loader struct {
	fs      afs.Service
	accepts func(ext string) bool
	logger  *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFilter sets the extension filter applied to directory listings. Files
// named explicitly are always loaded.
func WithFilter(accepts func(ext string) bool) Option {
	return func(l *Loader) {
		l.accepts = accepts
	}
}

// NewLoader creates a Loader backed by the default afs service.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:      afs.New(),
		accepts: func(string) bool { return true },
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = utils.OrNop(l.logger)
	return l
}

// Normalize turns a relative or absolute OS path into a file:// URL and leaves
// URLs with a scheme untouched.
func Normalize(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		abs, err := filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("absolute path for %s: %w", location, err)
		}
		norm = abs
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}

// Documents loads every location in order. Directories are walked recursively
// with entries sorted by name and filtered by extension.
func (l *Loader) Documents(ctx context.Context, locations ...string) ([]*models.Document, error) {
	var docs []*models.Document
	for _, location := range locations {
		norm, err := Normalize(location)
		if err != nil {
			return nil, err
		}
		object, err := l.fs.Object(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		if !object.IsDir() {
			doc, err := l.download(ctx, object)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}
		found, err := l.walk(ctx, norm)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// Text loads location as UTF-8 text, used for job descriptions.
func (l *Loader) Text(ctx context.Context, location string) (string, error) {
	norm, err := Normalize(location)
	if err != nil {
		return "", err
	}
	data, err := l.fs.DownloadWithURL(ctx, norm)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", location, err)
	}
	return string(data), nil
}

func (l *Loader) walk(ctx context.Context, dirURL string) ([]*models.Document, error) {
	objects, err := l.fs.List(ctx, dirURL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dirURL, err)
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Name() < objects[j].Name()
	})
	base := strings.TrimSuffix(url.Path(dirURL), "/")
	var docs []*models.Document
	for _, object := range objects {
		if object.IsDir() {
			if strings.TrimSuffix(url.Path(object.URL()), "/") == base {
				continue
			}
			sub, err := l.walk(ctx, url.Join(dirURL, object.Name()))
			if err != nil {
				return nil, err
			}
			docs = append(docs, sub...)
			continue
		}
		if !l.accepts(strings.ToLower(path.Ext(object.Name()))) {
			l.logger.Debug("skipping file", zap.String("url", object.URL()))
			continue
		}
		doc, err := l.download(ctx, object)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) download(ctx context.Context, object storage.Object) (*models.Document, error) {
	data, err := l.fs.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", object.URL(), err)
	}
	l.logger.Debug("loaded document", zap.String("url", object.URL()), zap.Int("bytes", len(data)))
	return &models.Document{Name: object.Name(), Content: data}, nil
}
