package catalog

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"medistock/m/domain"
	"medistock/m/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return New(db)
}

func sampleMedicine(id int64) domain.Medicine {
	return domain.Medicine{
		ID:      id,
		Name:    "Paracetamol",
		Type:    "tablet",
		QtyLeft: 50,
		Cost:    2.50,
		Purpose: "Fever",
		ExpDate: "31/12/25",
		Rack:    "A1",
		Mfg:     "Acme Pharma",
	}
}

func TestInsertAndFindByID(t *testing.T) {
	s := newTestStore(t)
	want := sampleMedicine(1)
	if err := s.Insert(want); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := s.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != want {
		t.Errorf("FindByID = %+v, want %+v", got, want)
	}
}

func TestFindByIDMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FindByID(99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID(99) err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete(42); err != nil {
		t.Errorf("Delete of absent id: %v, want nil", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := newTestStore(t)
	if err := s.Insert(sampleMedicine(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID after delete err = %v, want ErrNotFound", err)
	}
}

func TestFindByPurposeIsExactAndCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	if err := s.Insert(sampleMedicine(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	meds, err := s.FindByPurpose("Fever")
	if err != nil {
		t.Fatalf("FindByPurpose: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("FindByPurpose(Fever) = %d results, want 1", len(meds))
	}

	for _, q := range []string{"fever", "Fev", "Fever and cold"} {
		meds, err := s.FindByPurpose(q)
		if err != nil {
			t.Fatalf("FindByPurpose(%q): %v", q, err)
		}
		if len(meds) != 0 {
			t.Errorf("FindByPurpose(%q) = %d results, want 0", q, len(meds))
		}
	}
}

func TestUpdateFieldKnownColumn(t *testing.T) {
	s := newTestStore(t)
	if err := s.Insert(sampleMedicine(3)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.UpdateField("qty_left", "5", 3); err != nil {
		t.Fatalf("UpdateField(qty_left): %v", err)
	}
	got, err := s.FindByID(3)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.QtyLeft != 5 {
		t.Errorf("qty_left = %d, want 5", got.QtyLeft)
	}
}

func TestUpdateFieldRejectsUnknownColumn(t *testing.T) {
	s := newTestStore(t)
	before := sampleMedicine(3)
	if err := s.Insert(before); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	err := s.UpdateField("; DROP TABLE", "x", 3)
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Fatalf("UpdateField err = %v, want ErrInvalidField", err)
	}

	after, err := s.FindByID(3)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if after != before {
		t.Errorf("record changed after rejected update: %+v", after)
	}
}

func TestSetQuantity(t *testing.T) {
	s := newTestStore(t)
	if err := s.Insert(sampleMedicine(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.SetQuantity(1, 7); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	got, _ := s.FindByID(1)
	if got.QtyLeft != 7 {
		t.Errorf("qty_left = %d, want 7", got.QtyLeft)
	}
}

func TestMaxID(t *testing.T) {
	s := newTestStore(t)
	max, err := s.MaxID()
	if err != nil {
		t.Fatalf("MaxID: %v", err)
	}
	if max != 0 {
		t.Errorf("MaxID on empty catalog = %d, want 0", max)
	}

	for _, id := range []int64{2, 9, 4} {
		med := sampleMedicine(id)
		if err := s.Insert(med); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}
	max, err = s.MaxID()
	if err != nil {
		t.Fatalf("MaxID: %v", err)
	}
	if max != 9 {
		t.Errorf("MaxID = %d, want 9", max)
	}
}

func TestPurposesDistinctSorted(t *testing.T) {
	s := newTestStore(t)
	purposes := []string{"Fever", "Cough", "Fever", "Allergy"}
	for i, p := range purposes {
		med := sampleMedicine(int64(i + 1))
		med.Purpose = p
		if err := s.Insert(med); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got, err := s.Purposes()
	if err != nil {
		t.Fatalf("Purposes: %v", err)
	}
	want := []string{"Allergy", "Cough", "Fever"}
	if len(got) != len(want) {
		t.Fatalf("Purposes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Purposes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
