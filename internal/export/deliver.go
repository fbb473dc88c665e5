package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Deliverer hands an encoded File to the user. It returns where the file ended up.
type Deliverer interface {
	Deliver(ctx context.Context, f File) (string, error)
}

// maxNameAttempts bounds the "name-N.ext" probing when a file already exists.
const maxNameAttempts = 100

// ErrNoFreeName is returned when every candidate name in the directory is taken.
var ErrNoFreeName = errors.New("no free file name in export directory")

// DirDeliverer writes exports into a local directory. Existing files are never
// overwritten; a numeric suffix is added instead.
type DirDeliverer struct {
	dir    string
	logger *slog.Logger
}

// NewDirDeliverer creates a DirDeliverer for dir.
func NewDirDeliverer(dir string, logger *slog.Logger) *DirDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirDeliverer{dir: dir, logger: logger.With("component", "export_deliverer")}
}

// Deliver writes f into the export directory and returns the written path.
func (d *DirDeliverer) Deliver(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := safeName(f.Name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(d.dir, candidate)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create export file: %w", err)
		}

		_, werr := file.Write(f.Content)
		cerr := file.Close()
		if werr != nil {
			return "", fmt.Errorf("failed to write export file: %w", werr)
		}
		if cerr != nil {
			return "", fmt.Errorf("failed to close export file: %w", cerr)
		}

		d.logger.Debug("export written",
			"path", path,
			"mime_type", f.MIMEType,
			"bytes", len(f.Content))
		return path, nil
	}

	return "", ErrNoFreeName
}

// safeName keeps a derived name inside the export directory.
func safeName(name string) string {
	name = strings.NewReplacer("/", "-", `\`, "-").Replace(name)
	if name == "" || strings.HasPrefix(name, ".") {
		name = "flashcards" + name
	}
	return name
}
