// Package export writes the exposed leaderboard view to CSV, JSON, YAML and PDF files.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/pkg/logger"
	"github.com/okian/crewboard/pkg/metrics"
)

// DefaultTitle is the PDF report title.
const DefaultTitle = "Crew Sales Leaderboard"

// Document is the serialised form of a leaderboard export.
type Document struct {
	GeneratedAt time.Time                 `json:"generated_at" yaml:"generated_at"`
	Empty       bool                      `json:"empty" yaml:"empty"`
	Carriers    []leaderboard.CarrierView `json:"carriers" yaml:"carriers"`
}

// Exporter writes leaderboard exports to files.
type Exporter struct {
	now    func() time.Time
	logger logger.Logger
	title  string
}

// NewExporter creates an Exporter.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		now:    time.Now,
		logger: logger.Get(),
		title:  DefaultTitle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document captures the exposed view of lb at the current time.
func (e *Exporter) Document(lb *leaderboard.Leaderboard) Document {
	return Document{
		GeneratedAt: e.now().UTC(),
		Empty:       lb.IsEmpty(),
		Carriers:    lb.View(),
	}
}

// Export writes lb in each format to dir and returns the absolute paths in format order.
// Files are named <name>_<YYYYMMDD_HHMMSS>.<ext>. dir defaults to the working directory
// and is created when missing.
func (e *Exporter) Export(ctx context.Context, lb *leaderboard.Leaderboard, formats []Format, name, dir string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNoName
	}
	doc := e.Document(lb)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path, err := e.exportOne(doc, f, name, dir)
		if err != nil {
			return paths, err
		}
		metrics.RecordExport(string(f))
		e.logger.Info(ctx, "leaderboard exported",
			logger.String("format", string(f)),
			logger.String("path", path),
			logger.Int("carriers", len(doc.Carriers)))
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *Exporter) exportOne(doc Document, f Format, name, dir string) (string, error) {
	write, err := e.writerFor(f)
	if err != nil {
		return "", err
	}
	path, err := generateFilename(name, dir, string(f), doc.GeneratedAt)
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", f, err)
	}
	if err := write(file, doc); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("error writing %s file: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing %s file: %w", f, err)
	}
	return filepath.Abs(path)
}

// Write renders doc in format f to w.
func (e *Exporter) Write(w io.Writer, doc Document, f Format) error {
	write, err := e.writerFor(f)
	if err != nil {
		return err
	}
	return write(w, doc)
}

func (e *Exporter) writerFor(f Format) (func(io.Writer, Document) error, error) {
	switch f {
	case FormatCSV:
		return WriteCSV, nil
	case FormatJSON:
		return WriteJSON, nil
	case FormatYAML:
		return WriteYAML, nil
	case FormatPDF:
		return func(w io.Writer, doc Document) error {
			return WritePDF(w, doc, e.title)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

func generateFilename(base, dir, ext string, at time.Time) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	filename := fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_150405"), ext)
	return filepath.Join(dir, filename), nil
}
