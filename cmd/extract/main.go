// Command extract submits PDFs to the OCR service from the command line and
// writes one JSON export per document that has structured fields.
//
//	extract -out ./exports invoice.pdf receipt.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/feichai0017/ocr-review/config"
	"github.com/feichai0017/ocr-review/internal/document"
	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/pkg/logger"
	"github.com/feichai0017/ocr-review/pkg/ocrclient"
)

func main() {
	outDir := flag.String("out", ".", "directory for the exported JSON files")
	serviceURL := flag.String("url", "", "OCR service base URL (overrides OCR_SERVICE_URL)")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	if err := run(context.Background(), flag.Args(), *outDir, *serviceURL, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "extract:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, paths []string, outDir, serviceURL string, verbose bool) error {
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if serviceURL != "" {
		cfg.OCR.BaseURL = serviceURL
	}

	log := logger.NewNop()
	if verbose {
		if log, err = logger.NewLogger(
			logger.WithEncoding("console"),
			logger.WithOutputPaths([]string{"stderr"}),
		); err != nil {
			return err
		}
	}
	defer log.Sync()

	inspector := document.NewInspector(log)
	files := make([]models.SelectedFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, inspector.Inspect(filepath.Base(p), content))
	}

	client := ocrclient.NewClient(ocrclient.Config{BaseURL: cfg.OCR.BaseURL, Timeout: cfg.OCR.RequestTimeout}, log)
	panel := review.NewPanel(client, log)
	panel.SelectFiles(files)
	if err := panel.Submit(ctx); err != nil {
		return err
	}

	failed := false
	for _, n := range panel.DrainNotifications() {
		fmt.Fprintln(os.Stderr, n.Message)
		failed = failed || n.Kind == models.NotificationError
	}
	if failed {
		return fmt.Errorf("extraction failed")
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	view := panel.Snapshot()
	fmt.Printf("%d document%s processed.\n", len(view.Results), pluralSuffix(len(view.Results)))
	for _, r := range view.Results {
		if !r.Exportable {
			fmt.Printf("  %s: No structured fields found.\n", r.Filename)
			continue
		}
		name, data, err := panel.ExportJSON(r.Index)
		if err != nil {
			return err
		}
		dest := filepath.Join(outDir, filepath.Base(name))
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		fmt.Printf("  %s: %d field%s -> %s\n", r.Filename, len(r.Fields), pluralSuffix(len(r.Fields)), dest)
	}
	return nil
}

func pluralSuffix(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
