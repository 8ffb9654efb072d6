package audit

import "context"

// Recorder adapts a Repository to the single-call shape the definition
// manager expects for lifecycle auditing.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a recorder backed by the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record persists one lifecycle action against a definition name.
func (r *Recorder) Record(ctx context.Context, action, name string, success bool, details string) error {
	return r.repo.Create(ctx, &Entry{
		Action:     action,
		Definition: name,
		Success:    success,
		Details:    details,
	})
}
