package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

const systemPrompt = `You are a file organization assistant. Given a list of files,
propose folder groupings. Respond with a single JSON object and nothing else:
{"folders":[{"name":string,"display_name":string,"rationale":string,"confidence":number,
"files":[{"path":string,"action":"move"|"copy"|"link"|"ignore","reason":string,"confidence":number}]}],
"detected_topics":[string],"sensitive_files":[{"path":string,"type":string,"advice":string}]}
Confidence values are between 0 and 1. Flag files that appear to contain
credentials, financial or medical data as sensitive. Prefer the existing
folder names when they fit.`

// userPrompt renders the classification request as the user message.
func userPrompt(req *organizer.ClassificationRequest) (string, error) {
	files, err := json.Marshal(req.Files)
	if err != nil {
		return "", fmt.Errorf("encoding file summaries: %w", err)
	}

	var b strings.Builder
	b.WriteString("Files:\n")
	b.Write(files)
	if len(req.ExistingFolders) > 0 {
		b.WriteString("\n\nExisting folders to reuse when appropriate:\n")
		b.WriteString(strings.Join(req.ExistingFolders, ", "))
	}
	return b.String(), nil
}

// ExtractJSON strips markdown code fences that chat models like to wrap
// around JSON output. The result may still be invalid; the plan builder
// decides that.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
