// Package splitter turns a scanned action-plan PDF into the per-section
// PNG images the analysis pipeline consumes. The PDF is validated with
// pdfcpu, pages are rendered to PNG through ImageMagick, and each
// registered section's region is cropped out of its page image.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/calebwren/redline/internal/sections"
)

var (
	ErrInvalidPDF   = errors.New("source pdf failed validation")
	ErrRenderFailed = errors.New("page rendering failed")
	ErrCropFailed   = errors.New("section crop failed")
)

// Splitter renders and crops one document at a time.
type Splitter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{logger: logger}
}

// PageCount validates the PDF and reports its page count without
// rendering anything.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	return pdfCtx.PageCount, nil
}

// Split renders every page of the PDF to outDir/page-<n>.png and then
// crops outDir/<section>.png for each registered section whose page
// exists. It returns the rendered page count.
func (sp *Splitter) Split(ctx context.Context, pdfPath, outDir string, registry *sections.Registry) (int, error) {
	pageCount, err := PageCount(pdfPath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("%w: create output dir: %w", ErrRenderFailed, err)
	}

	if err := sp.renderPages(ctx, pdfPath, outDir, pageCount); err != nil {
		return 0, err
	}

	if err := sp.cropSections(ctx, outDir, registry, pageCount); err != nil {
		return pageCount, err
	}

	return pageCount, nil
}

func (sp *Splitter) renderPages(ctx context.Context, pdfPath, outDir string, pageCount int) error {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(dcconfig.DefaultImageConfig())
	if err != nil {
		return fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkerCount(len(allPages)))

	for i, page := range allPages {
		pageNum := i + 1
		imgPath := PagePath(outDir, pageNum)

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("write page %d image: %w", pageNum, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	sp.logger.InfoContext(ctx, "pages rendered",
		"pdf", pdfPath,
		"page_count", pageCount)

	return nil
}

func (sp *Splitter) cropSections(ctx context.Context, outDir string, registry *sections.Registry, pageCount int) error {
	for _, desc := range registry.All() {
		if desc.Region.Page < 1 || desc.Region.Page > pageCount {
			sp.logger.WarnContext(ctx, "section page out of range",
				"section", desc.Name,
				"page", desc.Region.Page,
				"page_count", pageCount)
			continue
		}

		src := PagePath(outDir, desc.Region.Page)
		dst := filepath.Join(outDir, desc.Name+".png")
		if err := CropRegion(src, dst, desc.Region); err != nil {
			return fmt.Errorf("section %s: %w", desc.Name, err)
		}
	}
	return nil
}

// PagePath names a rendered page image within dir.
func PagePath(dir string, pageNum int) string {
	return filepath.Join(dir, fmt.Sprintf("page-%d.png", pageNum))
}

func renderWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
