// Package document turns resume files into plain text.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/logger"
)

var (
	// ErrNoText is returned when a document holds no extractable text.
	ErrNoText = errors.New("document has no text")
	// ErrUnsupported is returned for file types that cannot be read.
	ErrUnsupported = errors.New("unsupported document type")
)

// Content is the text of a document together with where it came from.
type Content struct {
	Text      string
	PageCount int
	Path      string
}

type Reader struct {
	logger *zap.Logger
}

func NewReader(log *zap.Logger) *Reader {
	return &Reader{logger: logger.WithComponent(log, "document")}
}

// Read picks the decoder by file extension: .pdf is parsed page by page, .txt and .md are read as is.
func (r *Reader) Read(path string) (*Content, error) {
	var (
		content *Content
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		content, err = r.readPDF(path)
	case ".txt", ".md", ".text":
		content, err = readPlain(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content.Text) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoText)
	}

	r.logger.Debug("document read",
		zap.String(logger.FieldSource, path),
		zap.Int("pages", content.PageCount),
		zap.Int("chars", len(content.Text)),
	)

	return content, nil
}

// ReadText is a convenience wrapper returning only the text.
func (r *Reader) ReadText(path string) (string, error) {
	content, err := r.Read(path)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func (r *Reader) readPDF(path string) (*Content, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	total := reader.NumPage()

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.Warn("skipping unreadable pdf page", zap.String(logger.FieldSource, path), zap.Int("page", i), zap.Error(err))
			continue
		}

		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return &Content{Text: b.String(), PageCount: total, Path: path}, nil
}

func readPlain(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Content{Text: string(data), PageCount: 1, Path: path}, nil
}
