package spending

import "strings"

var (
	rentLabelKeywords = []string{"rent", "alquiler", "housing", "hipoteca", "mortgage"}
	rentSlugKeywords  = []string{"rent", "housing"}
)

// IsRentCategory reports whether a category looks like housing costs, by
// label (in English or Spanish) or by slug.
func IsRentCategory(c Category) bool {
	label := strings.ToLower(c.Label)
	for _, k := range rentLabelKeywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	slug := strings.ToLower(c.Slug)
	for _, k := range rentSlugKeywords {
		if strings.Contains(slug, k) {
			return true
		}
	}
	return false
}
