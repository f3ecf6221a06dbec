// Package classify enriches raw rule identifiers and source tags with human
// categories, fix suggestions, and display titles. Pure lookup tables, no
// state.
package classify

import (
	"strings"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
)

// DefaultFixSuggestion is returned for rule identifiers without a curated fix.
const DefaultFixSuggestion = "Review accessibility guidelines and fix accordingly."

// fixSuggestions maps stable rule identifiers to curated remediation advice.
var fixSuggestions = map[string]string{
	"document-title":    "Add a descriptive <title> element in the <head> section.",
	"image-alt":         "Add alt text to images. Use alt='' for decorative images.",
	"html-has-lang":     "Add lang attribute to <html> tag, e.g., <html lang='en'>.",
	"color-contrast":    "Increase color contrast ratio to at least 4.5:1.",
	"link-name":         "Links should have descriptive text content.",
	"button-name":       "Buttons should have accessible names.",
	"label":             "Form inputs should have associated <label> elements.",
	"aria-hidden-focus": "Don't hide focusable elements from screen readers.",
}

// categoryPriority is the ordered tag-to-category table. The first matching
// tag wins; order matters because axe rules frequently carry several
// category tags.
var categoryPriority = []struct {
	tag      string
	category schemas.Category
}{
	{"cat.color", schemas.CategoryColor},
	{"cat.forms", schemas.CategoryForms},
	{"cat.images", schemas.CategoryImages},
	{"cat.language", schemas.CategoryLanguage},
	{"cat.structure", schemas.CategoryStructure},
}

// FixSuggestion returns curated remediation advice for a rule identifier,
// falling back to generic guidance for unknown rules.
func FixSuggestion(ruleID string) string {
	if fix, ok := fixSuggestions[ruleID]; ok {
		return fix
	}
	return DefaultFixSuggestion
}

// Category resolves the issue category from source tags, first match in
// priority order. No match yields General.
func Category(tags []string) schemas.Category {
	for _, entry := range categoryPriority {
		for _, tag := range tags {
			if tag == entry.tag {
				return entry.category
			}
		}
	}
	return schemas.CategoryGeneral
}

// Title converts a raw rule identifier into a readable display title:
// separator characters become spaces and each word is title-cased.
// "image-alt" becomes "Image Alt". Purely cosmetic.
func Title(ruleID string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(ruleID)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
