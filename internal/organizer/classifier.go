package organizer

import "context"

// FileSummary is the per-file digest sent to the classifier. Payloads are
// never sent; only the name, type, size, and a short excerpt.
type FileSummary struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Size    int64  `json:"size"`
	Excerpt string `json:"excerpt,omitempty"`
}

// ClassificationRequest is the input to a classification call.
// ExistingFolders lists folder names already in use so the model is
// encouraged to reuse them instead of inventing near-duplicates.
type ClassificationRequest struct {
	Files           []FileSummary
	ExistingFolders []string
}

// Classifier is the black-box classification collaborator. Classify
// returns the raw response document; shape validation belongs to the plan
// builder, which rejects anything that does not parse.
type Classifier interface {
	Classify(ctx context.Context, req *ClassificationRequest) ([]byte, error)

	// TestConnection probes the endpoint. It is used to recompute a
	// provider's connectivity flag, which is never trusted stale.
	TestConnection(ctx context.Context) error
}
