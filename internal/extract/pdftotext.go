package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/paperforge/paperforge/internal/storage"
)

// PDFTextExtractor shells out to pdftotext against a blob-stored PDF.
type PDFTextExtractor struct {
	blobs storage.BlobStore
}

func NewPDFTextExtractor(blobs storage.BlobStore) *PDFTextExtractor {
	return &PDFTextExtractor{blobs: blobs}
}

// Extract copies the blob to a temp file and runs pdftotext over it. The
// temp file is removed before returning.
func (p *PDFTextExtractor) Extract(ctx context.Context, ref string) (string, error) {
	rc, err := p.blobs.Get(ref)
	if err != nil {
		return "", fmt.Errorf("open source %q: %w", ref, err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "source-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "pdftotext", tmp.Name(), "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(output), nil
}
