package docscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

// textProbePages is how many leading pages are sampled to decide whether the
// PDF carries selectable text at all.
const textProbePages = 3

// analyzePDF inspects document metadata, navigation outline and text layer.
// The pdf library panics on malformed input, so the whole inspection runs
// behind a recover barrier and maps panics to the error result.
func (a *Analyzer) analyzePDF(_ context.Context, path, filename string) (result *schemas.ScoreResult, info *schemas.DocumentInfo) {
	defer func() {
		if r := recover(); r != nil {
			errResult := scoring.ErrorResult(filename, fmt.Sprintf("PDF analysis error: %v", r))
			result, info = &errResult, nil
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		errResult := scoring.ErrorResult(filename, fmt.Sprintf("PDF analysis error: %v", err))
		return &errResult, nil
	}
	defer f.Close()

	var findings []schemas.Finding

	title := pdfTitle(reader)
	if title == "" {
		findings = append(findings, schemas.Finding{
			RuleID:        "pdf-title",
			Title:         "Missing Document Title",
			Severity:      schemas.SeverityCritical,
			Description:   "PDF missing title in document properties",
			FixSuggestion: "Add a title in PDF properties (File > Properties)",
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		})
	}

	if !hasOutline(reader) {
		findings = append(findings, schemas.Finding{
			RuleID:        "pdf-bookmarks",
			Title:         "No Document Bookmarks",
			Severity:      schemas.SeverityWarning,
			Description:   "PDF lacks bookmarks for navigation",
			FixSuggestion: "Add bookmarks for major sections",
			Category:      schemas.CategoryNavigation,
			AffectedCount: 1,
		})
	}

	pageCount := reader.NumPage()
	hasText := pdfHasText(reader, pageCount)
	if !hasText {
		findings = append(findings, schemas.Finding{
			RuleID:        "pdf-scanned",
			Title:         "Scanned/Image PDF",
			Severity:      schemas.SeverityCritical,
			Description:   "PDF appears to be scanned images without selectable text",
			FixSuggestion: "Use OCR to create searchable text",
			Category:      schemas.CategoryText,
			AffectedCount: 1,
		})
	}

	docInfo := &schemas.DocumentInfo{
		Pages:   pageCount,
		HasText: hasText,
		Title:   title,
		Author:  pdfInfoString(reader, "Author"),
	}
	return a.score(filename, findings, docInfo, schemas.MethodPDFAnalysis)
}

// extractPDFText returns a page-delimited text prefix of the document.
func extractPDFText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction failed: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sections []string
	limit := reader.NumPage()
	if limit > pdfExtractPages {
		limit = pdfExtractPages
	}
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- Page %d ---\n%s", i, clip(pageText, pdfPageCharBudget)))
	}

	if len(sections) == 0 {
		return "No extractable text found", nil
	}
	return strings.Join(sections, "\n\n"), nil
}

func pdfTitle(reader *pdf.Reader) string {
	return pdfInfoString(reader, "Title")
}

// pdfInfoString reads one string entry from the document information
// dictionary, tolerating documents that have none.
func pdfInfoString(reader *pdf.Reader, key string) (value string) {
	defer func() {
		if recover() != nil {
			value = ""
		}
	}()

	entry := reader.Trailer().Key("Info").Key(key)
	if entry.IsNull() {
		return ""
	}
	return strings.TrimSpace(entry.Text())
}

func hasOutline(reader *pdf.Reader) (present bool) {
	defer func() {
		if recover() != nil {
			present = false
		}
	}()
	return len(reader.Outline().Child) > 0
}

// pdfHasText probes the first few pages for any selectable text.
func pdfHasText(reader *pdf.Reader, pageCount int) bool {
	limit := pageCount
	if limit > textProbePages {
		limit = textProbePages
	}
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err == nil && strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}
