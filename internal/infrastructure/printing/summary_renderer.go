package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	apptrading "github.com/dukahub/backend/internal/application/trading"
	"github.com/dukahub/backend/internal/domain/trading"
)

const (
	defaultBinaryPath = "wkhtmltopdf"
	defaultTimeout    = 30 * time.Second
)

// FileSummaryRendererConfig contains configuration for the summary renderer
type FileSummaryRendererConfig struct {
	// OutputDir is the directory rendered summaries are written to
	OutputDir string
	// BinaryPath is the path to the wkhtmltopdf binary; searched in PATH when
	// not absolute
	BinaryPath string
	// Timeout bounds a single PDF conversion
	Timeout time.Duration
	// Logger for debug output
	Logger *zap.Logger
}

// FileSummaryRenderer renders the printable daily summary to the local
// filesystem. The HTML layout is always produced; when wkhtmltopdf is
// available it is converted to PDF, otherwise the HTML artifact itself is the
// deliverable. Either way the returned path is what gets attached to the
// summary record.
type FileSummaryRenderer struct {
	config FileSummaryRendererConfig
	tmpl   *template.Template
	logger *zap.Logger
}

// summaryTemplateData is the template context for one rendered summary
type summaryTemplateData struct {
	Session     *trading.StockSession
	Summary     *trading.DailySummary
	GeneratedAt time.Time
}

// NewFileSummaryRenderer creates a new filesystem-backed summary renderer
func NewFileSummaryRenderer(config FileSummaryRendererConfig) (*FileSummaryRenderer, error) {
	if config.OutputDir == "" {
		return nil, fmt.Errorf("printing: output directory is required")
	}
	if config.BinaryPath == "" {
		config.BinaryPath = defaultBinaryPath
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	tmpl, err := template.New("daily_summary").Funcs(summaryFuncMap).Parse(defaultSummaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("printing: failed to parse summary template: %w", err)
	}

	return &FileSummaryRenderer{
		config: config,
		tmpl:   tmpl,
		logger: config.Logger,
	}, nil
}

// RenderDailySummary renders the summary and returns the path of the artifact
func (r *FileSummaryRenderer) RenderDailySummary(ctx context.Context, session *trading.StockSession, summary *trading.DailySummary) (string, error) {
	var buf bytes.Buffer
	data := summaryTemplateData{
		Session:     session,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("printing: failed to render summary template: %w", err)
	}

	dir := filepath.Join(r.config.OutputDir, session.TenantID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("printing: failed to create output directory: %w", err)
	}

	base := summary.TradingDate.Format("2006-01-02") + "-daily-summary"
	htmlPath := filepath.Join(dir, base+".html")
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("printing: failed to write summary: %w", err)
	}

	binary, err := exec.LookPath(r.config.BinaryPath)
	if err != nil {
		// No converter installed; the HTML file is the artifact
		r.logger.Debug("wkhtmltopdf not found, keeping HTML summary",
			zap.String("path", htmlPath),
		)
		return htmlPath, nil
	}

	pdfPath := filepath.Join(dir, base+".pdf")
	if err := r.convertToPDF(ctx, binary, htmlPath, pdfPath); err != nil {
		r.logger.Warn("PDF conversion failed, keeping HTML summary",
			zap.String("path", htmlPath),
			zap.Error(err),
		)
		return htmlPath, nil
	}

	os.Remove(htmlPath)
	return pdfPath, nil
}

// convertToPDF shells out to wkhtmltopdf under a timeout
func (r *FileSummaryRenderer) convertToPDF(ctx context.Context, binary, htmlPath, pdfPath string) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary,
		"--quiet",
		"--page-size", "A4",
		"--encoding", "utf-8",
		htmlPath,
		pdfPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wkhtmltopdf: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// Ensure FileSummaryRenderer implements the ReportRenderer interface
var _ apptrading.ReportRenderer = (*FileSummaryRenderer)(nil)
