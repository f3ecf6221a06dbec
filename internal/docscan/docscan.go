// Package docscan analyzes local documents (PDF, Word, plain text) for
// structural accessibility issues. Unlike the web scanner it classifies
// findings at the source: each check already knows its severity and category.
// All failures degrade to the deterministic error result.
package docscan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

// Extraction budgets, shared with the advisory prompt builder. Documents can
// be arbitrarily large; only a bounded prefix is ever read into memory.
const (
	pdfExtractPages    = 5
	pdfPageCharBudget  = 1000
	wordExtractParas   = 50
	wordParaCharBudget = 500
	textCharBudget     = 2000
)

// Analyzer evaluates documents for accessibility compliance.
type Analyzer struct {
	logger *zap.Logger
}

var _ schemas.DocumentAnalyzer = (*Analyzer)(nil)

// NewAnalyzer returns a document analyzer.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{logger: logger.Named("docscan")}
}

// AnalyzeDocument dispatches on the file extension and always returns a
// complete result. The DocumentInfo is nil when analysis failed.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, path, filename string) (*schemas.ScoreResult, *schemas.DocumentInfo) {
	switch ext(filename) {
	case ".pdf":
		return a.analyzePDF(ctx, path, filename)
	case ".doc", ".docx":
		return a.analyzeWord(ctx, path, filename)
	case ".txt":
		return a.analyzeText(ctx, path, filename)
	default:
		result := scoring.ErrorResult(filename, fmt.Sprintf("Unsupported file type: %s", ext(filename)))
		return &result, nil
	}
}

// ExtractText returns a bounded text prefix of the document, used to give the
// AI advisor content context. Extraction failures are reported as text so the
// advisory path never hard-fails on an unreadable document.
func (a *Analyzer) ExtractText(path, filename string) string {
	var text string
	var err error

	switch ext(filename) {
	case ".pdf":
		text, err = extractPDFText(path)
	case ".doc", ".docx":
		text, err = extractWordText(path)
	case ".txt":
		text, err = extractPlainText(path)
	default:
		return "Unsupported file type for text extraction"
	}

	if err != nil {
		a.logger.Warn("Text extraction failed", zap.String("file", filename), zap.Error(err))
		return fmt.Sprintf("Error extracting text: %.200s", err.Error())
	}
	return text
}

// score packages document findings through the document policy.
func (a *Analyzer) score(filename string, findings []schemas.Finding, info *schemas.DocumentInfo, method string) (*schemas.ScoreResult, *schemas.DocumentInfo) {
	result := scoring.ScoreDocumentResult(filename, findings, info.ElementCount(), method)
	a.logger.Info("Document analysis complete",
		zap.String("file", filename),
		zap.String("method", method),
		zap.Int("score", result.Score),
		zap.Int("issues", len(findings)))
	return &result, info
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
