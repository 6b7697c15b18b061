package analyzer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/seoscan/internal/model"
)

// Recommended length bounds, inclusive on both ends. A title of exactly
// 10 or 60 characters is fine; 9 or 61 is not. Lengths are counted in
// Unicode code points, not bytes.
const (
	minTitleLength = 10
	maxTitleLength = 60

	minMetaDescriptionLength = 50
	maxMetaDescriptionLength = 160
)

// maxExternalLinks is the number of external links a page may carry
// before its link profile is flagged.
const maxExternalLinks = 10

// Analyzer checks a parsed page against a fixed set of SEO rules.
// The zero value is ready to use; New exists for symmetry with the rest
// of the codebase.
type Analyzer struct{}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze inspects the document fetched from pageURL and returns its
// issue record. The record may be empty (HasIssues() == false) when the
// page passes every rule.
func (a *Analyzer) Analyze(pageURL string, doc *goquery.Document) *model.PageIssues {
	issues := model.NewPageIssues(pageURL)

	a.checkTitle(doc, issues)
	a.checkMetaDescription(doc, issues)
	a.checkHeadings(doc, issues)
	a.checkLinks(pageURL, doc, issues)
	a.checkImages(doc, issues)

	return issues
}

// checkTitle flags a missing title tag, or one whose length falls
// outside the recommended bounds.
func (a *Analyzer) checkTitle(doc *goquery.Document, issues *model.PageIssues) {
	title := doc.Find("title").First()
	text := title.Text()

	if title.Length() == 0 || strings.TrimSpace(text) == "" {
		issues.Add(model.CategoryTitle, "Missing Title Tag")
		return
	}

	length := utf8.RuneCountInString(text)
	if length < minTitleLength || length > maxTitleLength {
		issues.Add(model.CategoryTitle,
			fmt.Sprintf("Title Tag Length Issue (Current: %d chars)", length))
	}
}

// checkMetaDescription flags a missing description meta tag, or one
// whose content length falls outside the recommended bounds.
func (a *Analyzer) checkMetaDescription(doc *goquery.Document, issues *model.PageIssues) {
	content, exists := doc.Find(`meta[name="description"]`).First().Attr("content")

	if !exists || strings.TrimSpace(content) == "" {
		issues.Add(model.CategoryMetaDescription, "Missing Meta Description")
		return
	}

	length := utf8.RuneCountInString(content)
	if length < minMetaDescriptionLength || length > maxMetaDescriptionLength {
		issues.Add(model.CategoryMetaDescription,
			fmt.Sprintf("Meta Description Length Issue (Current: %d chars)", length))
	}
}

// checkHeadings flags H1 problems and hierarchy gaps. The rules are
// independent: a page with no H1 can still report a missing H4 if it
// has an H3 but no H4.
func (a *Analyzer) checkHeadings(doc *goquery.Document, issues *model.PageIssues) {
	counts := make([]int, 7) // index 1..6 = h1..h6
	for level := 1; level <= 6; level++ {
		counts[level] = doc.Find(fmt.Sprintf("h%d", level)).Length()
	}

	switch {
	case counts[1] == 0:
		issues.Add(model.CategoryHeading, "No H1 Tag Found")
	case counts[1] > 1:
		issues.Add(model.CategoryHeading, "Multiple H1 Tags")
	}

	for level := 1; level <= 5; level++ {
		if counts[level] > 0 && counts[level+1] == 0 {
			issues.Add(model.CategoryHeading,
				fmt.Sprintf("Potential Heading Hierarchy Issue (Missing H%d)", level+1))
		}
	}
}

// checkLinks flags pages carrying an excessive number of external links.
// A link is external when its resolved host differs from the page's host.
func (a *Analyzer) checkLinks(pageURL string, doc *goquery.Document, issues *model.PageIssues) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	external := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		if !strings.EqualFold(resolved.Host, base.Host) {
			external++
		}
	})

	if external > maxExternalLinks {
		issues.Add(model.CategoryLink,
			fmt.Sprintf("High Number of External Links (%d)", external))
	}
}

// checkImages flags pages with images lacking a non-empty alt attribute.
// A whitespace-only alt counts as present.
func (a *Analyzer) checkImages(doc *goquery.Document, issues *model.PageIssues) {
	missing := 0
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		alt, exists := sel.Attr("alt")
		if !exists || alt == "" {
			missing++
		}
	})

	if missing > 0 {
		issues.Add(model.CategoryImage,
			fmt.Sprintf("%d Images Missing Alt Text", missing))
	}
}
