package model

// Category identifies one group of related SEO issues on a page.
// The string values double as the keys in serialized output, so they are
// stable identifiers and must not change between releases.
type Category string

// The five issue categories checked on every page.
const (
	// CategoryTitle covers missing and badly sized <title> tags.
	CategoryTitle Category = "Title Issues"

	// CategoryMetaDescription covers missing and badly sized
	// <meta name="description"> tags.
	CategoryMetaDescription Category = "Meta Description Issues"

	// CategoryHeading covers H1 presence and heading hierarchy gaps.
	CategoryHeading Category = "Heading Structure Issues"

	// CategoryLink covers the external link profile of the page.
	CategoryLink Category = "Link Issues"

	// CategoryImage covers images without alt text.
	CategoryImage Category = "Image SEO Issues"
)

// Categories lists all issue categories in presentation order.
// Writers iterate this slice rather than ranging over the issue map so
// output order is deterministic.
func Categories() []Category {
	return []Category{
		CategoryTitle,
		CategoryMetaDescription,
		CategoryHeading,
		CategoryLink,
		CategoryImage,
	}
}

// PageIssues is the analyzer output for a single page: the page URL plus
// a sparse mapping from category to the issues found in that category.
// Categories without issues are absent from the map entirely.
//
// A PageIssues value is built once by the analyzer and never mutated
// afterwards; writers and the database treat it as read-only.
type PageIssues struct {
	// URL is the address of the analyzed page.
	URL string `json:"url"`

	// Issues maps each category to its ordered issue descriptions.
	// Only categories with at least one issue are present.
	Issues map[Category][]string `json:"issues,omitempty"`
}

// NewPageIssues creates an empty issue record for the given URL.
func NewPageIssues(url string) *PageIssues {
	return &PageIssues{
		URL:    url,
		Issues: make(map[Category][]string),
	}
}

// Add appends an issue description to the given category.
func (p *PageIssues) Add(category Category, issue string) {
	if p.Issues == nil {
		p.Issues = make(map[Category][]string)
	}
	p.Issues[category] = append(p.Issues[category], issue)
}

// HasIssues reports whether any category produced at least one issue.
func (p *PageIssues) HasIssues() bool {
	for _, issues := range p.Issues {
		if len(issues) > 0 {
			return true
		}
	}
	return false
}

// TotalIssues returns the number of issues across all categories.
func (p *PageIssues) TotalIssues() int {
	total := 0
	for _, issues := range p.Issues {
		total += len(issues)
	}
	return total
}

// Get returns the issues recorded for a category, or nil if the category
// produced none.
func (p *PageIssues) Get(category Category) []string {
	return p.Issues[category]
}
