package importers

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrlokans/commlog/internal/entities"
)

// categoryAliases maps folded labels in either language to the canonical value.
var categoryAliases = map[string]entities.Category{
	"konflikt": entities.CategoryConflict,
	"conflict": entities.CategoryConflict,

	"gespraech":    entities.CategoryConversation,
	"gespräch":     entities.CategoryConversation,
	"conversation": entities.CategoryConversation,

	"verhalten": entities.CategoryBehavior,
	"behavior":  entities.CategoryBehavior,
	"behaviour": entities.CategoryBehavior,

	"beweis":   entities.CategoryEvidence,
	"evidence": entities.CategoryEvidence,

	"kindbetreuung": entities.CategoryChildcare,
	"childcare":     entities.CategoryChildcare,

	"sonstiges": entities.CategoryOther,
	"other":     entities.CategoryOther,
}

// MapCategory resolves a free-text label to a canonical category.
// Unknown labels fall back to CategoryOther so an import never stalls on them.
func MapCategory(label string) entities.Category {
	if c, ok := LookupCategory(label); ok {
		return c
	}
	return entities.CategoryOther
}

// LookupCategory is MapCategory without the fallback.
func LookupCategory(label string) (entities.Category, bool) {
	c, ok := categoryAliases[foldKey(label)]
	return c, ok
}

// foldKey trims and case-folds s. A Caser keeps state, so each call gets its own.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
