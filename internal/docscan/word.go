package docscan

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

const imageAlertThreshold = 5

// wordDocument is the parsed OOXML structure needed by the rule set.
type wordDocument struct {
	paragraphs    []*etree.Element
	headingLevels map[int]bool
	headingCount  int
	imageCount    int
	tables        []*etree.Element
	hyperlinks    int
	title         string
	author        string
}

// analyzeWord unpacks the OOXML container and runs structural checks over the
// main document part plus the core properties part.
func (a *Analyzer) analyzeWord(_ context.Context, path, filename string) (*schemas.ScoreResult, *schemas.DocumentInfo) {
	doc, err := parseWordDocument(path)
	if err != nil {
		result := scoring.ErrorResult(filename, fmt.Sprintf("Word analysis error: %v", err))
		return &result, nil
	}

	var findings []schemas.Finding

	if doc.title == "" {
		findings = append(findings, schemas.Finding{
			RuleID:        "word-title",
			Title:         "Missing Document Title",
			Severity:      schemas.SeverityCritical,
			Description:   "Word document missing title property",
			FixSuggestion: "Add title in File > Properties > Title field",
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		})
	}

	findings = append(findings, checkHeadings(doc)...)

	if doc.imageCount > 0 {
		severity := schemas.SeverityWarning
		if doc.imageCount >= imageAlertThreshold {
			severity = schemas.SeverityCritical
		}
		findings = append(findings, schemas.Finding{
			RuleID:        "word-image-alt",
			Title:         "Images Need Alt Text Check",
			Severity:      severity,
			Description:   fmt.Sprintf("Document contains %d image(s) - verify alt text", doc.imageCount),
			FixSuggestion: "Right-click each image > Edit Alt Text > add description",
			Category:      schemas.CategoryImages,
			AffectedCount: doc.imageCount,
		})
	}

	if n := tablesWithoutHeaders(doc.tables); n > 0 {
		findings = append(findings, schemas.Finding{
			RuleID:        "word-table-headers",
			Title:         "Tables May Need Headers",
			Severity:      schemas.SeverityWarning,
			Description:   fmt.Sprintf("%d table(s) may need header rows", n),
			FixSuggestion: "Designate first row as header row (Table Design > Header Row)",
			Category:      schemas.CategoryTables,
			AffectedCount: n,
		})
	}

	if doc.hyperlinks > 0 {
		findings = append(findings, schemas.Finding{
			RuleID:        "word-hyperlinks",
			Title:         "Contains Hyperlinks",
			Severity:      schemas.SeverityInfo,
			Description:   fmt.Sprintf("Document has %d hyperlink(s)", doc.hyperlinks),
			FixSuggestion: "Ensure link text is descriptive (not 'click here')",
			Category:      schemas.CategoryLinks,
			AffectedCount: doc.hyperlinks,
		})
	}

	if doc.author == "" {
		findings = append(findings, schemas.Finding{
			RuleID:        "word-author",
			Title:         "Missing Author",
			Severity:      schemas.SeverityInfo,
			Description:   "Document missing author information",
			FixSuggestion: "Add author in File > Properties",
			Category:      schemas.CategoryMetadata,
			AffectedCount: 1,
		})
	}

	info := &schemas.DocumentInfo{
		Paragraphs: len(doc.paragraphs),
		Headings:   doc.headingCount,
		Images:     doc.imageCount,
		Tables:     len(doc.tables),
		Hyperlinks: doc.hyperlinks,
		HasText:    hasParagraphText(doc.paragraphs),
		Title:      doc.title,
		Author:     doc.author,
	}
	return a.score(filename, findings, info, schemas.MethodWordAnalysis)
}

// checkHeadings validates the heading outline: at least one heading, a level 1
// heading, and no skipped levels.
func checkHeadings(doc *wordDocument) []schemas.Finding {
	if doc.headingCount == 0 {
		return []schemas.Finding{{
			RuleID:        "word-headings",
			Title:         "No Heading Structure",
			Severity:      schemas.SeverityWarning,
			Description:   "Document doesn't use heading styles",
			FixSuggestion: "Use Heading 1, Heading 2, etc. styles for document structure",
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		}}
	}

	var findings []schemas.Finding
	if !doc.headingLevels[1] {
		findings = append(findings, schemas.Finding{
			RuleID:        "word-h1",
			Title:         "Missing H1 Heading",
			Severity:      schemas.SeverityWarning,
			Description:   "No Heading 1 style found (main document title)",
			FixSuggestion: "Use Heading 1 for main document title",
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		})
	}

	maxLevel := 0
	for level := range doc.headingLevels {
		if level > maxLevel {
			maxLevel = level
		}
	}
	for i := 1; i < maxLevel; i++ {
		if !doc.headingLevels[i] && doc.headingLevels[i+1] {
			findings = append(findings, schemas.Finding{
				RuleID:        "word-heading-order",
				Title:         "Skipped Heading Level",
				Severity:      schemas.SeverityWarning,
				Description:   fmt.Sprintf("Heading level %d skipped (went from H%d to H%d)", i, i-1, i+1),
				FixSuggestion: "Maintain sequential heading levels",
				Category:      schemas.CategoryStructure,
				AffectedCount: 1,
			})
			break
		}
	}
	return findings
}

// tablesWithoutHeaders counts tables whose first row carries neither the OOXML
// header-row marker nor an all-caps first cell.
func tablesWithoutHeaders(tables []*etree.Element) int {
	missing := 0
	for _, tbl := range tables {
		rows := findByTag(tbl, "tr")
		if len(rows) == 0 {
			continue
		}
		if !rowIsHeader(rows[0]) {
			missing++
		}
	}
	return missing
}

func rowIsHeader(row *etree.Element) bool {
	if len(findByTag(row, "tblHeader")) > 0 {
		return true
	}
	cells := findByTag(row, "tc")
	if len(cells) == 0 {
		return false
	}
	text := strings.TrimSpace(elementText(cells[0]))
	return text != "" && text == strings.ToUpper(text)
}

// parseWordDocument reads the zip container's core properties and main
// document part. The .doc binary format is not a zip and fails here, which is
// the intended degradation to the error result.
func parseWordDocument(path string) (*wordDocument, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("not a readable Word document: %w", err)
	}
	defer archive.Close()

	doc := &wordDocument{headingLevels: map[int]bool{}}

	if core, err := readArchivePart(archive, "docProps/core.xml"); err == nil {
		if el := firstByTag(core.Root(), "title"); el != nil {
			doc.title = strings.TrimSpace(el.Text())
		}
		if el := firstByTag(core.Root(), "creator"); el != nil {
			doc.author = strings.TrimSpace(el.Text())
		}
	}

	body, err := readArchivePart(archive, "word/document.xml")
	if err != nil {
		return nil, err
	}

	doc.paragraphs = findByTag(body.Root(), "p")
	for _, para := range doc.paragraphs {
		if style := paragraphStyle(para); strings.HasPrefix(style, "Heading") {
			doc.headingCount++
			if level, err := strconv.Atoi(strings.TrimPrefix(style, "Heading")); err == nil {
				doc.headingLevels[level] = true
			}
		}
	}
	doc.imageCount = len(findByTag(body.Root(), "docPr"))
	doc.tables = findByTag(body.Root(), "tbl")
	doc.hyperlinks = len(findByTag(body.Root(), "hyperlink"))

	return doc, nil
}

func readArchivePart(archive *zip.ReadCloser, name string) (*etree.Document, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", name, err)
		}
		if doc.Root() == nil {
			return nil, fmt.Errorf("empty %s", name)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("missing %s", name)
}

// paragraphStyle returns the w:val of the paragraph's pStyle, if any.
func paragraphStyle(para *etree.Element) string {
	style := firstByTag(para, "pStyle")
	if style == nil {
		return ""
	}
	for _, attr := range style.Attr {
		if attr.Key == "val" {
			return attr.Value
		}
	}
	return ""
}

func elementText(el *etree.Element) string {
	var sb strings.Builder
	for _, t := range findByTag(el, "t") {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

func hasParagraphText(paragraphs []*etree.Element) bool {
	for _, para := range paragraphs {
		if strings.TrimSpace(elementText(para)) != "" {
			return true
		}
	}
	return false
}

// findByTag walks the subtree and collects elements by local tag name,
// ignoring namespace prefixes.
func findByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	if el == nil {
		return out
	}
	if el.Tag == tag {
		out = append(out, el)
	}
	for _, child := range el.ChildElements() {
		out = append(out, findByTag(child, tag)...)
	}
	return out
}

func firstByTag(el *etree.Element, tag string) *etree.Element {
	matches := findByTag(el, tag)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// extractWordText returns a bounded prefix of the document's paragraph text.
func extractWordText(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("not a readable Word document: %w", err)
	}
	defer archive.Close()

	body, err := readArchivePart(archive, "word/document.xml")
	if err != nil {
		return "", err
	}

	var paragraphs []string
	for _, para := range findByTag(body.Root(), "p") {
		if len(paragraphs) >= wordExtractParas {
			break
		}
		text := strings.TrimSpace(elementText(para))
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, clip(text, wordParaCharBudget))
	}

	if len(paragraphs) == 0 {
		return "No text content found", nil
	}
	return strings.Join(paragraphs, "\n"), nil
}
