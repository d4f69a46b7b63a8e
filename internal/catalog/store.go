package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medistock/m/domain"
)

// updatableFields is the closed set of medicine columns UpdateField accepts.
// The column name is interpolated into the UPDATE statement, so anything
// outside this set is rejected before it reaches SQL.
var updatableFields = map[string]bool{
	"id":       true,
	"name":     true,
	"type":     true,
	"qty_left": true,
	"cost":     true,
	"purpose":  true,
	"exp_date": true,
	"rack":     true,
	"mfg":      true,
}

// Store persists the medicine catalog.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListAll returns every medicine in storage order.
func (s *Store) ListAll() ([]domain.Medicine, error) {
	var meds []domain.Medicine
	if err := s.db.Select(&meds, `SELECT id, name, type, qty_left, cost, purpose, exp_date, rack, mfg FROM medicines`); err != nil {
		return nil, fmt.Errorf("list medicines: %w: %v", domain.ErrStorage, err)
	}
	return meds, nil
}

// Insert persists a new record. Identifier uniqueness is the caller's job
// (the inventory service assigns max+1).
func (s *Store) Insert(med domain.Medicine) error {
	_, err := s.db.Exec(`INSERT INTO medicines (id, name, type, qty_left, cost, purpose, exp_date, rack, mfg) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		med.ID, med.Name, med.Type, med.QtyLeft, med.Cost, med.Purpose, med.ExpDate, med.Rack, med.Mfg)
	if err != nil {
		return fmt.Errorf("insert medicine: %w: %v", domain.ErrStorage, err)
	}
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op, not an error.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM medicines WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete medicine: %w: %v", domain.ErrStorage, err)
	}
	return nil
}

// UpdateField sets a single named column of the record matching id.
func (s *Store) UpdateField(field, value string, id int64) error {
	if !updatableFields[field] {
		return fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
	}
	query := fmt.Sprintf(`UPDATE medicines SET %s = ? WHERE id = ?`, field)
	if _, err := s.db.Exec(query, value, id); err != nil {
		return fmt.Errorf("update %s: %w: %v", field, domain.ErrStorage, err)
	}
	return nil
}

// SetQuantity overwrites the quantity on hand for id.
func (s *Store) SetQuantity(id, qty int64) error {
	if _, err := s.db.Exec(`UPDATE medicines SET qty_left = ? WHERE id = ?`, qty, id); err != nil {
		return fmt.Errorf("set quantity: %w: %v", domain.ErrStorage, err)
	}
	return nil
}

// FindByID returns the single medicine with the given id.
func (s *Store) FindByID(id int64) (domain.Medicine, error) {
	var med domain.Medicine
	err := s.db.Get(&med, `SELECT id, name, type, qty_left, cost, purpose, exp_date, rack, mfg FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, fmt.Errorf("medicine %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Medicine{}, fmt.Errorf("find medicine: %w: %v", domain.ErrStorage, err)
	}
	return med, nil
}

// FindByName returns the first medicine whose name exactly matches.
func (s *Store) FindByName(name string) (domain.Medicine, error) {
	var med domain.Medicine
	err := s.db.Get(&med, `SELECT id, name, type, qty_left, cost, purpose, exp_date, rack, mfg FROM medicines WHERE name = ? LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, fmt.Errorf("medicine %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Medicine{}, fmt.Errorf("find medicine: %w: %v", domain.ErrStorage, err)
	}
	return med, nil
}

// FindByPurpose returns medicines whose purpose exactly equals the query.
// The match is case-sensitive, not a substring search.
func (s *Store) FindByPurpose(purpose string) ([]domain.Medicine, error) {
	var meds []domain.Medicine
	if err := s.db.Select(&meds, `SELECT id, name, type, qty_left, cost, purpose, exp_date, rack, mfg FROM medicines WHERE purpose = ?`, purpose); err != nil {
		return nil, fmt.Errorf("search by purpose: %w: %v", domain.ErrStorage, err)
	}
	return meds, nil
}

// Purposes returns the distinct purpose values present in the catalog,
// sorted, for the search dropdown.
func (s *Store) Purposes() ([]string, error) {
	var purposes []string
	if err := s.db.Select(&purposes, `SELECT DISTINCT purpose FROM medicines WHERE purpose IS NOT NULL AND purpose != '' ORDER BY purpose`); err != nil {
		return nil, fmt.Errorf("list purposes: %w: %v", domain.ErrStorage, err)
	}
	return purposes, nil
}

// MaxID returns the highest assigned identifier, 0 for an empty catalog.
func (s *Store) MaxID() (int64, error) {
	var max int64
	if err := s.db.Get(&max, `SELECT COALESCE(MAX(id), 0) FROM medicines`); err != nil {
		return 0, fmt.Errorf("max id: %w: %v", domain.ErrStorage, err)
	}
	return max, nil
}
