package validate

import (
	"errors"
	"testing"
)

func validChoices() []string {
	return []string{
		"Introduction to Python",
		"Data Science Fundamentals",
		"Web Development with Django",
		"Machine Learning Basics",
		"Database Design",
		"Python Programming Lab",
		"Web Development Lab",
		"Database Systems Lab",
	}
}

func TestSubmissionValid(t *testing.T) {
	p := SplitProfile()
	choices := validChoices()

	v, err := Submission(p, "Ada Lovelace", "ada@example.com", choices, "prefers mornings")
	if err != nil {
		t.Fatalf("Submission failed for valid input: %v", err)
	}
	if v.Name != "Ada Lovelace" || v.Email != "ada@example.com" {
		t.Errorf("Identity fields not carried over: %+v", v)
	}
	if len(v.Choices) != 8 {
		t.Errorf("Expected 8 choices, got %d", len(v.Choices))
	}
	if v.Remarks != "prefers mornings" {
		t.Errorf("Remarks not carried over: %q", v.Remarks)
	}

	// The validated value must be a copy, not an alias of the input.
	choices[0] = "mutated"
	if v.Choices[0] == "mutated" {
		t.Error("Validated choices alias the caller's slice")
	}
}

func TestSubmissionMissingIdentity(t *testing.T) {
	p := SplitProfile()

	if _, err := Submission(p, "", "ada@example.com", validChoices(), ""); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity for empty name, got %v", err)
	}
	if _, err := Submission(p, "Ada", "", validChoices(), ""); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity for empty email, got %v", err)
	}
	if _, err := Submission(p, "   ", "ada@example.com", validChoices(), ""); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity for whitespace name, got %v", err)
	}

	// Identity wins over later constraints: empty name plus empty
	// choices must still report the identity error first.
	empty := make([]string, 8)
	if _, err := Submission(p, "", "", empty, ""); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity to win, got %v", err)
	}
}

func TestSubmissionIncompleteChoices(t *testing.T) {
	p := SplitProfile()

	choices := validChoices()
	choices[3] = ""
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrIncompleteChoices) {
		t.Errorf("Expected ErrIncompleteChoices for empty slot, got %v", err)
	}

	if _, err := Submission(p, "Ada", "ada@example.com", validChoices()[:5], ""); !errors.Is(err, ErrIncompleteChoices) {
		t.Errorf("Expected ErrIncompleteChoices for short slice, got %v", err)
	}
}

func TestSubmissionDuplicateChoice(t *testing.T) {
	p := SplitProfile()

	choices := validChoices()
	choices[1] = choices[0]
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrDuplicateChoice) {
		t.Errorf("Expected ErrDuplicateChoice, got %v", err)
	}

	// Duplicates across groups count too: the 8 choices must be
	// pairwise distinct as one set.
	choices = validChoices()
	choices[5] = choices[0]
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrDuplicateChoice) {
		t.Errorf("Expected ErrDuplicateChoice across groups, got %v", err)
	}

	// A duplicated out-of-catalog value still reports the duplicate:
	// the order rule says set cardinality is checked first.
	choices = validChoices()
	choices[0] = "Basket Weaving"
	choices[1] = "Basket Weaving"
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrDuplicateChoice) {
		t.Errorf("Expected ErrDuplicateChoice to win over catalog check, got %v", err)
	}
}

func TestSubmissionInvalidCatalogEntry(t *testing.T) {
	p := SplitProfile()

	choices := validChoices()
	choices[2] = "Basket Weaving"
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrInvalidCatalogEntry) {
		t.Errorf("Expected ErrInvalidCatalogEntry, got %v", err)
	}

	// A lab course in a theory slot is not a member of that group's
	// catalog even though it is a real course.
	choices = validChoices()
	choices[4] = "Operating Systems Lab"
	choices[5] = "Python Programming Lab"
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); !errors.Is(err, ErrInvalidCatalogEntry) {
		t.Errorf("Expected ErrInvalidCatalogEntry for cross-group choice, got %v", err)
	}
}

func TestSubmissionFlatProfile(t *testing.T) {
	p := FlatProfile()

	choices := TheoryCourses[:5]
	if _, err := Submission(p, "Ada", "ada@example.com", choices, ""); err != nil {
		t.Fatalf("Flat profile rejected valid input: %v", err)
	}

	dup := []string{TheoryCourses[0], TheoryCourses[0], TheoryCourses[2], TheoryCourses[3], TheoryCourses[4]}
	if _, err := Submission(p, "Ada", "ada@example.com", dup, ""); !errors.Is(err, ErrDuplicateChoice) {
		t.Errorf("Expected ErrDuplicateChoice in flat profile, got %v", err)
	}
}

func TestProfileColumnsAndLabels(t *testing.T) {
	p := SplitProfile()

	if p.TotalChoices() != 8 {
		t.Errorf("Expected 8 total choices, got %d", p.TotalChoices())
	}

	cols := p.Columns()
	if cols[0] != "theory_1" || cols[4] != "theory_5" || cols[5] != "lab_1" || cols[7] != "lab_3" {
		t.Errorf("Unexpected column names: %v", cols)
	}

	labels := p.Labels()
	if labels[0] != "Theory Course 1" || labels[7] != "Lab Course 3" {
		t.Errorf("Unexpected labels: %v", labels)
	}

	flat := FlatProfile()
	if got := flat.Labels()[0]; got != "Course Preference 1" {
		t.Errorf("Expected legacy label 'Course Preference 1', got %q", got)
	}
}

func TestCredentialChange(t *testing.T) {
	if err := CredentialChange("registrar", "s3cret-pass", "s3cret-pass"); err != nil {
		t.Errorf("Valid credential change rejected: %v", err)
	}

	if err := CredentialChange("", "s3cret-pass", "s3cret-pass"); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected ErrMissingField for empty username, got %v", err)
	}
	if err := CredentialChange("registrar", "", ""); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected ErrMissingField for empty password, got %v", err)
	}
	if err := CredentialChange("registrar", "s3cret-pass", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Expected ErrPasswordMismatch, got %v", err)
	}
	if err := CredentialChange("registrar", "short", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}

	// A short password with a mismatched confirmation reports the
	// mismatch first.
	if err := CredentialChange("registrar", "short", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Expected ErrPasswordMismatch to win, got %v", err)
	}
}
