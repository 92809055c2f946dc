package organizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// maxFolderNameLen is the sanitized folder name length cap.
const maxFolderNameLen = 50

// Classification is the validated output of a classification call.
type Classification struct {
	Folders        []ClassifiedFolder
	DetectedTopics []string
	SensitiveFiles []model.SensitiveFile
}

// ClassifiedFolder is one raw folder recommendation before sanitization.
type ClassifiedFolder struct {
	Name        string
	DisplayName string
	Rationale   string
	Confidence  float64
	Files       []model.FileAction
}

// ParseClassification validates a raw classifier response against the
// expected shape. Any mismatch is a hard failure: no partial result is
// returned and the caller must not retry with the same payload.
func ParseClassification(data []byte) (*Classification, error) {
	var raw struct {
		Folders *[]struct {
			Name        string   `json:"name"`
			DisplayName string   `json:"display_name"`
			Rationale   string   `json:"rationale"`
			Confidence  *float64 `json:"confidence"`
			Files       []struct {
				Path       string   `json:"path"`
				Action     string   `json:"action"`
				Reason     string   `json:"reason"`
				Confidence *float64 `json:"confidence"`
			} `json:"files"`
		} `json:"folders"`
		DetectedTopics []string `json:"detected_topics"`
		SensitiveFiles []struct {
			Path   string `json:"path"`
			Type   string `json:"type"`
			Advice string `json:"advice"`
		} `json:"sensitive_files"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ClassificationParseError{Reason: "response is not valid JSON", Err: err}
	}
	if raw.Folders == nil {
		return nil, &ClassificationParseError{Reason: "missing folders array"}
	}

	result := &Classification{DetectedTopics: raw.DetectedTopics}

	for i, f := range *raw.Folders {
		if strings.TrimSpace(f.Name) == "" {
			return nil, &ClassificationParseError{Reason: fmt.Sprintf("folder %d has no name", i)}
		}
		if f.Confidence == nil {
			return nil, &ClassificationParseError{Reason: fmt.Sprintf("folder %q has no confidence", f.Name)}
		}
		folder := ClassifiedFolder{
			Name:        f.Name,
			DisplayName: f.DisplayName,
			Rationale:   f.Rationale,
			Confidence:  clamp01(*f.Confidence),
		}
		for j, a := range f.Files {
			if a.Path == "" {
				return nil, &ClassificationParseError{Reason: fmt.Sprintf("folder %q file %d has no path", f.Name, j)}
			}
			kind := model.ActionKind(a.Action)
			if !kind.Valid() {
				return nil, &ClassificationParseError{Reason: fmt.Sprintf("folder %q file %q has unknown action %q", f.Name, a.Path, a.Action)}
			}
			conf := 0.0
			if a.Confidence != nil {
				conf = clamp01(*a.Confidence)
			}
			folder.Files = append(folder.Files, model.FileAction{
				Path:       a.Path,
				Action:     kind,
				Reason:     a.Reason,
				Confidence: conf,
			})
		}
		result.Folders = append(result.Folders, folder)
	}

	for _, s := range raw.SensitiveFiles {
		if s.Path == "" {
			return nil, &ClassificationParseError{Reason: "sensitive file entry has no path"}
		}
		result.SensitiveFiles = append(result.SensitiveFiles, model.SensitiveFile{
			Path:   s.Path,
			Type:   s.Type,
			Advice: s.Advice,
		})
	}

	return result, nil
}

var illegalNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFolderName normalizes a raw folder name into a canonical form
// legal on common filesystems: whitespace collapsed to underscores,
// illegal characters stripped, lowercased, truncated to 50 characters.
// Whitespace is collapsed before the strip so a tab or newline run
// becomes an underscore instead of vanishing.
func SanitizeFolderName(raw string) string {
	name := strings.TrimSpace(raw)
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = illegalNameChars.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	if utf8.RuneCountInString(name) > maxFolderNameLen {
		name = string([]rune(name)[:maxFolderNameLen])
	}
	if name == "" {
		name = "unsorted"
	}
	return name
}

// BuildPlan converts a validated classification plus the originating file
// records into a canonical archive plan.
//
// Two raw folder names that sanitize identically are merged into one
// folder plan (file lists concatenated in order). That merge is what
// keeps create_folder operations unique per target; it is a correctness
// invariant, not an optimization.
func BuildPlan(c *Classification, records []model.FileRecord, rootLabel, logRef string, cfg model.PlanConfig) *model.ArchivePlan {
	byPath := make(map[string]*model.FileRecord, len(records))
	for i := range records {
		byPath[records[i].Path] = &records[i]
	}
	sensitive := make(map[string]bool, len(c.SensitiveFiles))
	for _, s := range c.SensitiveFiles {
		sensitive[s.Path] = true
	}

	plan := &model.ArchivePlan{
		RootLabel: rootLabel,
		Sensitive: c.SensitiveFiles,
		Config:    cfg,
	}

	// Merge folders by sanitized name, preserving first-appearance order.
	index := make(map[string]int)
	for _, f := range c.Folders {
		name := SanitizeFolderName(f.Name)
		i, seen := index[name]
		if !seen {
			index[name] = len(plan.Folders)
			plan.Folders = append(plan.Folders, model.FolderPlan{
				Name:        name,
				DisplayName: f.DisplayName,
				Rationale:   f.Rationale,
				Confidence:  f.Confidence,
			})
			i = index[name]
		}
		for _, a := range f.Files {
			if sensitive[a.Path] {
				// Sensitive files bypass folder assignment even when the
				// classifier placed them in a folder.
				continue
			}
			if _, ok := byPath[a.Path]; !ok {
				plan.Errors = append(plan.Errors, fmt.Sprintf("classifier referenced unknown file %q", a.Path))
				continue
			}
			plan.Folders[i].Files = append(plan.Folders[i].Files, a)
		}
	}

	// One create_folder per distinct folder, in first-appearance order,
	// before any operation targeting it.
	for _, f := range plan.Folders {
		plan.Operations = append(plan.Operations, model.Operation{
			Kind:   model.OpCreateFolder,
			Folder: f.Name,
			Note:   f.Rationale,
		})
	}
	for _, f := range plan.Folders {
		for _, a := range f.Files {
			plan.Operations = append(plan.Operations, model.Operation{
				Kind:      operationKind(a.Action),
				Folder:    f.Name,
				Items:     []string{a.Path},
				Note:      a.Reason,
				SizeDelta: sizeDelta(a.Action, byPath[a.Path]),
			})
		}
	}

	classified := 0
	var confidences []float64
	for _, f := range plan.Folders {
		confidences = append(confidences, f.Confidence)
		classified += len(f.Files)
		for _, a := range f.Files {
			confidences = append(confidences, a.Confidence)
		}
	}

	var totalBytes int64
	for _, r := range records {
		totalBytes += r.Size
	}
	plan.Summary = model.PlanSummary{
		TotalFiles:     len(records),
		TotalBytes:     totalBytes,
		Topics:         c.DetectedTopics,
		SensitiveCount: len(c.SensitiveFiles),
		FolderCount:    len(plan.Folders),
	}

	moved := 0
	for _, op := range plan.Operations {
		if op.Kind == model.OpMove {
			moved++
		}
	}
	plan.Metrics = model.PlanMetrics{
		ConfidenceMean: mean(confidences),
		FoldersCreated: len(plan.Folders),
		FilesMoved:     moved,
	}

	plan.Duplicates = duplicateGroups(records)
	plan.Rollback = model.RollbackInfo{
		Instructions: "Files were copied into the target location; originals were not deleted. Remove the created folders to undo.",
		LogRef:       logRef,
	}

	return plan
}

// operationKind maps a file action to its executable operation kind.
func operationKind(a model.ActionKind) model.OperationKind {
	switch a {
	case model.ActionMove:
		return model.OpMove
	case model.ActionCopy:
		return model.OpCopy
	case model.ActionLink:
		return model.OpLink
	default:
		return model.OpSkip
	}
}

// sizeDelta estimates the byte cost of one action against the target.
// Copies duplicate the payload; moves and links net out to roughly zero.
func sizeDelta(a model.ActionKind, rec *model.FileRecord) int64 {
	if rec == nil {
		return 0
	}
	if a == model.ActionCopy {
		return rec.Size
	}
	return 0
}

// mean returns the unweighted arithmetic mean, or 0 for an empty slice.
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// duplicateGroups groups record paths by content hash, reporting every
// hash shared by two or more files.
func duplicateGroups(records []model.FileRecord) []model.DuplicateGroup {
	byHash := make(map[string][]string)
	for _, r := range records {
		byHash[r.Hash] = append(byHash[r.Hash], r.Path)
	}
	var groups []model.DuplicateGroup
	for hash, paths := range byHash {
		if len(paths) > 1 {
			groups = append(groups, model.DuplicateGroup{Hash: hash, Paths: paths})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Hash < groups[j].Hash })
	return groups
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
