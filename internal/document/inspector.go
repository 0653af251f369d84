package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

const pdfMimeType = "application/pdf"

// Inspector 读取用户选中的文件并补充展示用的元数据
//
// Inspection never rejects a file: the picker's accept filter is the only gate.
type Inspector struct {
	logger     logger.Logger
	maxWorkers int
}

func NewInspector(log logger.Logger) *Inspector {
	return &Inspector{
		logger:     log.Named("inspector"),
		maxWorkers: 4,
	}
}

// InspectHeaders reads every uploaded part concurrently. The returned slice keeps
// the order of headers.
func (i *Inspector) InspectHeaders(ctx context.Context, headers []*multipart.FileHeader) ([]models.SelectedFile, error) {
	files := make([]models.SelectedFile, len(headers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.maxWorkers)

	for idx, header := range headers {
		idx, header := idx, header
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open file %s: %w", header.Filename, err)
			}
			defer f.Close()

			content, err := io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", header.Filename, err)
			}
			files[idx] = i.Inspect(header.Filename, content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Inspect builds a SelectedFile from raw content.
func (i *Inspector) Inspect(name string, content []byte) models.SelectedFile {
	file := models.SelectedFile{
		Name:     name,
		Content:  content,
		Size:     int64(len(content)),
		MimeType: http.DetectContentType(content),
	}

	if file.MimeType == pdfMimeType {
		pages, err := PageCount(content)
		if err != nil {
			i.logger.Debug("Could not read page count",
				logger.String("filename", name),
				logger.Error(err),
			)
		} else {
			file.Pages = pages
		}
	}
	return file
}

// PageCount returns the number of pages declared by a PDF document.
func PageCount(content []byte) (pages int, err error) {
	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return pdfReader.NumPage(), nil
}
