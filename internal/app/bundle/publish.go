/*
Package bundle handles the packaged static front end: locating its files and publishing
them to object storage.
*/
package bundle

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"assassin/internal/app/storage"
	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/logx"
)

// IndexFile is the entry page of the bundle.
const IndexFile = "index.html"

// PreviewTTL is how long the presigned preview link stays valid.
const PreviewTTL = 24 * time.Hour

// Report summarizes a publish run.
type Report struct {
	Files      []string `json:"files"`
	Bytes      int64    `json:"bytes"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

// Publisher uploads a bundle directory under a key prefix.
type Publisher struct {
	storage storage.StorageService
	dir     string
	prefix  string
	logger  zerolog.Logger
}

// NewPublisher returns a Publisher for dir. prefix may be empty.
func NewPublisher(svc storage.StorageService, dir, prefix string) *Publisher {
	return &Publisher{
		storage: svc,
		dir:     dir,
		prefix:  strings.Trim(prefix, "/"),
		logger:  logx.Component("bundle"),
	}
}

// Publish uploads every regular file in the bundle. It stops at the first failure.
// When the bundle has an index page the report carries a presigned link to it.
func (p *Publisher) Publish(ctx context.Context) (Report, error) {
	files, err := Files(p.dir)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		size, err := p.upload(ctx, rel)
		if err != nil {
			p.logger.Error().Err(err).Str("file", rel).Msg("Bundle upload stopped")
			return report, fmt.Errorf("%w: %v", errs.NewError(errs.ErrUploadFailed, rel), err)
		}

		report.Files = append(report.Files, rel)
		report.Bytes += size
		p.logger.Debug().Str("file", rel).Int64("bytes", size).Msg("Uploaded bundle file")
	}

	for _, rel := range report.Files {
		if rel == IndexFile {
			link, err := p.storage.PresignDownload(ctx, p.key(IndexFile), PreviewTTL)
			if err != nil {
				p.logger.Warn().Err(err).Msg("Could not presign preview link")
				break
			}
			report.PreviewURL = link
			break
		}
	}

	p.logger.Info().
		Int("files", len(report.Files)).
		Int64("bytes", report.Bytes).
		Str("prefix", p.prefix).
		Msg("Bundle published")

	return report, nil
}

func (p *Publisher) upload(ctx context.Context, rel string) (int64, error) {
	f, err := os.Open(filepath.Join(p.dir, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if err := p.storage.Upload(ctx, p.key(rel), f, ContentType(rel)); err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// key maps a slash-separated bundle path to its object key.
func (p *Publisher) key(rel string) string {
	if p.prefix == "" {
		return rel
	}
	return p.prefix + "/" + rel
}

// Files lists the regular files under dir as sorted, slash-separated relative paths.
// Hidden files and directories are skipped.
func Files(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errs.NewError(errs.ErrBundleMissing, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk bundle: %w", err)
	}

	if len(files) == 0 {
		return nil, errs.NewError(errs.ErrBundleMissing, dir)
	}

	return files, nil
}

// IsHidden reports whether a file or directory name is left out of the bundle.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ContentType guesses a file's MIME type from its extension.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".map":
		return "application/json"
	case ".elm":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
