package classify

import (
	"strings"
	"testing"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json passes through", `{"folders":[]}`, `{"folders":[]}`},
		{"strips json fence", "```json\n{\"folders\":[]}\n```", `{"folders":[]}`},
		{"strips plain fence", "```\n{\"folders\":[]}\n```", `{"folders":[]}`},
		{"trims surrounding whitespace", "  {\"folders\":[]}\n", `{"folders":[]}`},
		{"unterminated fence keeps content", "```json\n{\"folders\":[]}", `{"folders":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestUserPrompt(t *testing.T) {
	t.Run("includes file digests", func(t *testing.T) {
		req := &organizer.ClassificationRequest{
			Files: []organizer.FileSummary{
				{Name: "/in/a.pdf", MIME: "application/pdf", Size: 100},
				{Name: "/in/b.txt", MIME: "text/plain", Size: 20, Excerpt: "hello world"},
			},
		}

		got, err := userPrompt(req)
		if err != nil {
			t.Fatalf("userPrompt() error = %v", err)
		}
		for _, want := range []string{"/in/a.pdf", "application/pdf", "hello world"} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("lists existing folders when present", func(t *testing.T) {
		req := &organizer.ClassificationRequest{
			Files:           []organizer.FileSummary{{Name: "/in/a.pdf"}},
			ExistingFolders: []string{"documents", "photos"},
		}

		got, err := userPrompt(req)
		if err != nil {
			t.Fatalf("userPrompt() error = %v", err)
		}
		if !strings.Contains(got, "documents, photos") {
			t.Errorf("prompt missing existing folders:\n%s", got)
		}
	})

	t.Run("omits the folder section without existing folders", func(t *testing.T) {
		got, err := userPrompt(&organizer.ClassificationRequest{
			Files: []organizer.FileSummary{{Name: "/in/a.pdf"}},
		})
		if err != nil {
			t.Fatalf("userPrompt() error = %v", err)
		}
		if strings.Contains(got, "Existing folders") {
			t.Errorf("prompt unexpectedly mentions existing folders:\n%s", got)
		}
	})
}
