package store

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"coursereg/crypto"
)

// BootstrapUsername is the fixed username of the generated default
// admin. Its password is random, written once to the secret file.
const BootstrapUsername = "admin"

// dummySalt is burned through the same key derivation when a username
// does not exist, so lookup timing does not reveal which usernames do.
var dummySalt = []byte("coursereg-verify-dummy-salt")

// CredentialStore owns the single admin identity and the one-time
// bootstrap secret side channel (a plaintext file the operator reads
// for the first login; destroyed on rotation).
type CredentialStore struct {
	db         *sql.DB
	secretPath string
}

func NewCredentialStore(db *sql.DB, secretPath string) *CredentialStore {
	return &CredentialStore{db: db, secretPath: secretPath}
}

// Bootstrap creates the default admin identity if none exists:
// username "admin" with a cryptographically random password, hashed
// for storage and written in plaintext to the secret file for the
// operator. Idempotent; when an identity already exists it does
// nothing. Returns whether a bootstrap secret is currently showable.
func (s *CredentialStore) Bootstrap() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return false, fmt.Errorf("checking admin identity: %w", err)
	}
	if count > 0 {
		_, _, ok := s.BootstrapSecret()
		return ok, nil
	}

	password, err := crypto.GeneratePassword(12)
	if err != nil {
		return false, fmt.Errorf("generating bootstrap password: %w", err)
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return false, fmt.Errorf("generating salt: %w", err)
	}
	saltBytes, _ := base64.StdEncoding.DecodeString(salt)
	hash := crypto.HashPassword(password, saltBytes)

	_, err = s.db.Exec("INSERT INTO admins (username, password_hash, salt, is_default) VALUES (?, ?, ?, 1)",
		BootstrapUsername, hash, salt)
	if err != nil {
		return false, fmt.Errorf("creating default admin: %w", err)
	}

	secret := fmt.Sprintf("username: %s\npassword: %s\n", BootstrapUsername, password)
	if err := os.WriteFile(s.secretPath, []byte(secret), 0600); err != nil {
		return false, fmt.Errorf("writing bootstrap secret: %w", err)
	}
	return true, nil
}

// Verify checks the supplied credentials against the stored identity.
// The username must match exactly; the password digest is compared in
// constant time. An unknown username and a wrong password are not
// distinguishable to the caller.
func (s *CredentialStore) Verify(username, password string) (ok, isDefault bool, err error) {
	var hash, salt string
	var def int
	scanErr := s.db.QueryRow("SELECT password_hash, salt, is_default FROM admins WHERE username = ?", username).
		Scan(&hash, &salt, &def)
	if errors.Is(scanErr, sql.ErrNoRows) {
		crypto.DeriveKey(password, dummySalt)
		return false, false, nil
	}
	if scanErr != nil {
		return false, false, fmt.Errorf("loading admin identity: %w", scanErr)
	}

	saltBytes, decErr := base64.StdEncoding.DecodeString(salt)
	if decErr != nil {
		return false, false, fmt.Errorf("decoding stored salt: %w", decErr)
	}
	if !crypto.VerifyPassword(password, saltBytes, hash) {
		return false, false, nil
	}
	return true, def == 1, nil
}

// Rotate replaces the admin identity wholesale: all existing rows are
// deleted and exactly one non-default identity inserted, inside a
// single transaction so no reader ever observes zero or two admins.
// The bootstrap secret file is destroyed irreversibly. Callers must
// run validate.CredentialChange first.
func (s *CredentialStore) Rotate(newUsername, newPassword string) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}
	saltBytes, _ := base64.StdEncoding.DecodeString(salt)
	hash := crypto.HashPassword(newPassword, saltBytes)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting rotation: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM admins"); err != nil {
		tx.Rollback()
		return fmt.Errorf("removing old identity: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO admins (username, password_hash, salt, is_default) VALUES (?, ?, ?, 0)",
		newUsername, hash, salt); err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting new identity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rotation: %w", err)
	}

	if err := os.Remove(s.secretPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("destroying bootstrap secret: %w", err)
	}
	return nil
}

// BootstrapSecret returns the one-time credentials if the side channel
// still exists. Reading never consumes it; only Rotate destroys it.
func (s *CredentialStore) BootstrapSecret() (username, password string, ok bool) {
	data, err := os.ReadFile(s.secretPath)
	if err != nil {
		return "", "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, found := strings.CutPrefix(line, "username: "); found {
			username = v
		}
		if v, found := strings.CutPrefix(line, "password: "); found {
			password = v
		}
	}
	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}
