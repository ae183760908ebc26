package maintenance

import "github.com/google/uuid"

// BatchFailure is one member update that did not land.
type BatchFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BatchResult counts the independent per-record writes of a multi-record
// operation. Successful writes are not undone when others fail.
type BatchResult struct {
	Attempted int            `json:"attempted"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

func (b *BatchResult) record(id uuid.UUID, err error) {
	b.Attempted++
	if err != nil {
		b.Failed++
		b.Failures = append(b.Failures, BatchFailure{ID: id, Error: err.Error()})
		return
	}
	b.Succeeded++
}

func (b BatchResult) Partial() bool   { return b.Failed > 0 && b.Succeeded > 0 }
func (b BatchResult) AllFailed() bool { return b.Attempted > 0 && b.Failed == b.Attempted }
