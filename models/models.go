package models

// Submission is a stored course-preference entry. Choices holds every
// selected course flattened in choice-group order (e.g. 5 theory
// courses followed by 3 lab courses). Submissions are append-only:
// once stored they are never edited or removed.
type Submission struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Choices     []string `json:"choices"`
	Remarks     string   `json:"remarks"`
	SubmittedAt string   `json:"submitted_at"` // assigned by the store on insert
}

// ValidatedSubmission is the output of submission validation and the
// input to the store. ID and timestamp are assigned at insert time.
type ValidatedSubmission struct {
	Name    string
	Email   string
	Choices []string
	Remarks string
}

// AdminIdentity is the single admin account. IsDefault marks the
// bootstrap-generated identity, which must rotate its credentials
// before it gains full access.
type AdminIdentity struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
	IsDefault    bool   `json:"is_default"`
}
