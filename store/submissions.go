package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"coursereg/models"
	"coursereg/validate"
)

// TimeFormat is the stored submission timestamp layout.
const TimeFormat = "2006-01-02 15:04:05"

// SubmissionStore persists the append-only submission log. The
// profile supplies the choice columns, so the flat and split form
// shapes use the same store. There are no update or delete
// operations; accepted submissions are immutable.
type SubmissionStore struct {
	db      *sql.DB
	profile validate.Profile
}

func NewSubmissionStore(db *sql.DB, profile validate.Profile) *SubmissionStore {
	return &SubmissionStore{db: db, profile: profile}
}

// Append stores a validated submission, assigning the identifier and
// timestamp. Safe under concurrent invocation: the single write
// connection serializes inserts and AUTOINCREMENT keeps identifiers
// unique. Persistence errors propagate; nothing is stored partially.
func (s *SubmissionStore) Append(v models.ValidatedSubmission) (int64, error) {
	cols := s.profile.Columns()
	if len(v.Choices) != len(cols) {
		return 0, fmt.Errorf("submission has %d choices, profile expects %d", len(v.Choices), len(cols))
	}

	fields := append([]string{"name", "email"}, cols...)
	fields = append(fields, "remarks", "submission_date")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")

	args := make([]any, 0, len(fields))
	args = append(args, v.Name, v.Email)
	for _, c := range v.Choices {
		args = append(args, c)
	}
	args = append(args, v.Remarks, time.Now().Format(TimeFormat))

	res, err := s.db.Exec(fmt.Sprintf("INSERT INTO submissions (%s) VALUES (%s)",
		strings.Join(fields, ", "), placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("storing submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading submission id: %w", err)
	}
	return id, nil
}

// ListAll returns every submission in identifier (insertion) order.
func (s *SubmissionStore) ListAll() ([]models.Submission, error) {
	cols := s.profile.Columns()
	fields := append([]string{"id", "name", "email"}, cols...)
	fields = append(fields, "remarks", "submission_date")

	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM submissions ORDER BY id", strings.Join(fields, ", ")))
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		sub := models.Submission{Choices: make([]string, len(cols))}
		dests := make([]any, 0, len(fields))
		dests = append(dests, &sub.ID, &sub.Name, &sub.Email)
		for i := range sub.Choices {
			dests = append(dests, &sub.Choices[i])
		}
		dests = append(dests, &sub.Remarks, &sub.SubmittedAt)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

// Count returns the number of stored submissions.
func (s *SubmissionStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

// WriteCSV dumps all submissions as comma-separated text with a
// header row of field names, for operator download.
func (s *SubmissionStore) WriteCSV(w io.Writer) error {
	subs, err := s.ListAll()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := append([]string{"Name", "Email"}, s.profile.Labels()...)
	header = append(header, "Remarks", "Submission Date")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, sub := range subs {
		record := append([]string{sub.Name, sub.Email}, sub.Choices...)
		record = append(record, sub.Remarks, sub.SubmittedAt)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
