package report

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-pricer/internal/config"
)

// Content types of rendered documents.
const (
	ContentTypePDF      = "application/pdf"
	ContentTypeHTML     = "text/html; charset=utf-8"
	ContentTypeFallback = "application/octet-stream"
)

// Document is a rendered proposal ready to be written or served.
type Document struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Converter turns proposal HTML into a binary document format.
type Converter interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// NewConverter creates a Converter based on config. The "none" converter
// yields nil, which makes ToDocument return plain HTML.
func NewConverter(cfg config.RenderConfig) (Converter, error) {
	switch cfg.Converter {
	case "wkhtmltopdf", "":
		return NewWkHTMLToPDF(cfg.BinPath, cfg.Timeout()), nil
	case "none":
		return nil, nil
	default:
		return nil, eris.Errorf("report: unknown converter %q", cfg.Converter)
	}
}

// WkHTMLToPDF converts HTML to PDF using the wkhtmltopdf CLI tool.
type WkHTMLToPDF struct {
	binPath string
	timeout time.Duration
}

// NewWkHTMLToPDF creates a converter. If binPath is empty, "wkhtmltopdf" is
// used; a zero timeout means the caller's context alone bounds the run.
func NewWkHTMLToPDF(binPath string, timeout time.Duration) *WkHTMLToPDF {
	if binPath == "" {
		binPath = "wkhtmltopdf"
	}
	return &WkHTMLToPDF{binPath: binPath, timeout: timeout}
}

// Convert pipes html through wkhtmltopdf and returns the PDF from stdout.
func (w *WkHTMLToPDF) Convert(ctx context.Context, html []byte) ([]byte, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, w.binPath, "--quiet", "--encoding", "utf-8", "-", "-")
	cmd.Stdin = bytes.NewReader(html)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "report: wkhtmltopdf failed: %s", stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, eris.New("report: wkhtmltopdf produced no output")
	}
	return stdout.Bytes(), nil
}

// ToDocument converts html with conv. It always returns a renderable
// document: with no converter the HTML is returned as such, and when
// conversion fails the HTML bytes are returned as a generic document.
func ToDocument(ctx context.Context, conv Converter, html string) Document {
	if conv == nil {
		return Document{Data: []byte(html), ContentType: ContentTypeHTML, Ext: "html"}
	}

	pdf, err := conv.Convert(ctx, []byte(html))
	if err != nil {
		zap.L().Warn("report: document conversion failed, returning html",
			zap.Error(err),
		)
		return Document{Data: []byte(html), ContentType: ContentTypeFallback, Ext: "html"}
	}
	return Document{Data: pdf, ContentType: ContentTypePDF, Ext: "pdf"}
}

// Fallback reports whether the document is the unconverted HTML returned
// after a conversion failure.
func (d Document) Fallback() bool {
	return d.ContentType == ContentTypeFallback
}
