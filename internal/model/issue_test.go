package model

import "testing"

// TestPageIssuesAdd tests issue accumulation per category.
func TestPageIssuesAdd(t *testing.T) {
	t.Parallel()

	t.Run("appends issues in order", func(t *testing.T) {
		t.Parallel()

		page := NewPageIssues("http://example.com/")
		page.Add(CategoryHeading, "No H1 Tag Found")
		page.Add(CategoryHeading, "Potential Heading Hierarchy Issue (Missing H3)")

		issues := page.Get(CategoryHeading)
		if len(issues) != 2 {
			t.Fatalf("expected 2 issues, got %d", len(issues))
		}
		if issues[0] != "No H1 Tag Found" {
			t.Errorf("unexpected first issue: %q", issues[0])
		}
	})

	t.Run("initializes nil map", func(t *testing.T) {
		t.Parallel()

		page := &PageIssues{URL: "http://example.com/"}
		page.Add(CategoryTitle, "Missing Title Tag")

		if len(page.Get(CategoryTitle)) != 1 {
			t.Error("expected issue to be recorded on zero-value record")
		}
	})
}

// TestPageIssuesHasIssues tests the sparse-record semantics.
func TestPageIssuesHasIssues(t *testing.T) {
	t.Parallel()

	t.Run("empty record has no issues", func(t *testing.T) {
		t.Parallel()

		page := NewPageIssues("http://example.com/")
		if page.HasIssues() {
			t.Error("expected no issues on empty record")
		}
		if page.TotalIssues() != 0 {
			t.Errorf("expected 0 total issues, got %d", page.TotalIssues())
		}
	})

	t.Run("counts across categories", func(t *testing.T) {
		t.Parallel()

		page := NewPageIssues("http://example.com/")
		page.Add(CategoryTitle, "Missing Title Tag")
		page.Add(CategoryImage, "2 Images Missing Alt Text")

		if !page.HasIssues() {
			t.Error("expected HasIssues to be true")
		}
		if page.TotalIssues() != 2 {
			t.Errorf("expected 2 total issues, got %d", page.TotalIssues())
		}
	})

	t.Run("absent category returns nil", func(t *testing.T) {
		t.Parallel()

		page := NewPageIssues("http://example.com/")
		if page.Get(CategoryLink) != nil {
			t.Error("expected nil for category without issues")
		}
	})
}

// TestCategories tests the fixed presentation order.
func TestCategories(t *testing.T) {
	t.Parallel()

	got := Categories()
	want := []Category{
		CategoryTitle,
		CategoryMetaDescription,
		CategoryHeading,
		CategoryLink,
		CategoryImage,
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
