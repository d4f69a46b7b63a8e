package credentials

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medistock/m/domain"
)

// Store reads and writes the credentials table. Rows are seed data in normal
// operation; Insert exists for the register flow.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Lookup returns the credential row for username.
func (s *Store) Lookup(username string) (domain.Credential, error) {
	var cred domain.Credential
	err := s.db.Get(&cred, `SELECT username, password FROM credentials WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Credential{}, fmt.Errorf("credential %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("lookup credential: %w: %v", domain.ErrStorage, err)
	}
	return cred, nil
}

// Insert stores a new username/password-hash pair.
func (s *Store) Insert(username, passwordHash string) error {
	if _, err := s.db.Exec(`INSERT INTO credentials (username, password) VALUES (?, ?)`, username, passwordHash); err != nil {
		return fmt.Errorf("insert credential: %w: %v", domain.ErrStorage, err)
	}
	return nil
}
