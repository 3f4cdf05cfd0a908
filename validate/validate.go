package validate

import (
	"errors"
	"fmt"
	"strings"

	"coursereg/models"
)

// Submission validation errors, in the order the constraints are
// checked. The first failing constraint wins so error messages are
// deterministic.
var (
	ErrMissingIdentity     = errors.New("name and email are required")
	ErrIncompleteChoices   = errors.New("all course choices must be selected")
	ErrDuplicateChoice     = errors.New("each course may be chosen only once")
	ErrInvalidCatalogEntry = errors.New("choice is not in the course catalog")
)

// Credential-change validation errors.
var (
	ErrMissingField     = errors.New("username and password are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// MinPasswordLength applies to rotated admin passwords.
const MinPasswordLength = 8

// ChoiceGroup describes one block of ranked choice fields: how many
// slots it has and which catalog the slots may draw from. Name is used
// for storage column prefixes, Label for display and CSV headers.
type ChoiceGroup struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Count   int      `json:"count"`
	Catalog []string `json:"catalog"`
}

// Profile is the submission shape: an ordered list of choice groups.
// The flat 5-choice legacy form and the theory/lab split form are both
// just profiles; there is a single validation and storage code path.
type Profile struct {
	Groups []ChoiceGroup
}

// TheoryCourses is the default theory catalog.
var TheoryCourses = []string{
	"Introduction to Python",
	"Data Science Fundamentals",
	"Web Development with Django",
	"Machine Learning Basics",
	"Advanced Data Structures",
	"Algorithms and Complexity",
	"Database Design",
	"Cloud Computing",
	"Mobile App Development",
	"Cybersecurity Essentials",
}

// LabCourses is the default lab catalog.
var LabCourses = []string{
	"Python Programming Lab",
	"Web Development Lab",
	"Database Systems Lab",
	"Computer Networks Lab",
	"Operating Systems Lab",
}

// SplitProfile is the current form shape: 5 theory choices plus 3 lab
// choices, each group with its own catalog.
func SplitProfile() Profile {
	return Profile{Groups: []ChoiceGroup{
		{Name: "theory", Label: "Theory Course", Count: 5, Catalog: TheoryCourses},
		{Name: "lab", Label: "Lab Course", Count: 3, Catalog: LabCourses},
	}}
}

// FlatProfile is the legacy form shape: 5 uniform course preferences
// drawn from a single catalog.
func FlatProfile() Profile {
	return Profile{Groups: []ChoiceGroup{
		{Name: "course", Label: "Course Preference", Count: 5, Catalog: TheoryCourses},
	}}
}

// TotalChoices returns the number of choice slots across all groups.
func (p Profile) TotalChoices() int {
	n := 0
	for _, g := range p.Groups {
		n += g.Count
	}
	return n
}

// Columns returns one storage column name per choice slot, in order,
// e.g. theory_1..theory_5, lab_1..lab_3.
func (p Profile) Columns() []string {
	cols := make([]string, 0, p.TotalChoices())
	for _, g := range p.Groups {
		for i := 1; i <= g.Count; i++ {
			cols = append(cols, fmt.Sprintf("%s_%d", strings.ToLower(g.Name), i))
		}
	}
	return cols
}

// Labels returns one display label per choice slot, in order,
// e.g. "Theory Course 1".."Theory Course 5", "Lab Course 1"..
func (p Profile) Labels() []string {
	labels := make([]string, 0, p.TotalChoices())
	for _, g := range p.Groups {
		for i := 1; i <= g.Count; i++ {
			labels = append(labels, fmt.Sprintf("%s %d", g.Label, i))
		}
	}
	return labels
}

// Submission checks a raw form submission against the profile and
// returns it ready for storage. Constraints are evaluated in a fixed
// order: identity fields present, every choice slot filled, all
// choices pairwise distinct, and each choice a member of its group's
// catalog. The identifier and timestamp are assigned by the store,
// not here.
func Submission(p Profile, name, email string, choices []string, remarks string) (models.ValidatedSubmission, error) {
	var none models.ValidatedSubmission

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return none, ErrMissingIdentity
	}

	total := p.TotalChoices()
	if len(choices) != total {
		return none, ErrIncompleteChoices
	}
	for _, c := range choices {
		if c == "" {
			return none, ErrIncompleteChoices
		}
	}

	seen := make(map[string]bool, total)
	for _, c := range choices {
		if seen[c] {
			return none, ErrDuplicateChoice
		}
		seen[c] = true
	}

	idx := 0
	for _, g := range p.Groups {
		for i := 0; i < g.Count; i++ {
			if !inCatalog(g.Catalog, choices[idx]) {
				return none, ErrInvalidCatalogEntry
			}
			idx++
		}
	}

	out := models.ValidatedSubmission{
		Name:    name,
		Email:   email,
		Choices: make([]string, total),
		Remarks: remarks,
	}
	copy(out.Choices, choices)
	return out, nil
}

// CredentialChange checks a requested admin credential rotation.
// Order: both fields present, confirmation matches, minimum length.
// Pure check only; it never touches the store.
func CredentialChange(username, password, confirm string) error {
	if username == "" || password == "" {
		return ErrMissingField
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func inCatalog(catalog []string, choice string) bool {
	for _, c := range catalog {
		if c == choice {
			return true
		}
	}
	return false
}
