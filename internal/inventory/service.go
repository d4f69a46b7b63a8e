package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"medistock/m/domain"
	"medistock/m/internal/catalog"
)

// Service enforces identifier assignment and the quantity floor on top of
// the catalog store.
type Service struct {
	store *catalog.Store
}

func New(store *catalog.Store) *Service {
	return &Service{store: store}
}

// ProductInput carries the add-product form fields. Quantity and cost arrive
// as text and are parsed here rather than stored raw.
type ProductInput struct {
	Name    string
	Type    string
	QtyLeft string
	Cost    string
	Purpose string
	ExpDate string
	Rack    string
	Mfg     string
}

// AddProduct assigns the next identifier (max existing + 1, or 1 for an
// empty catalog) and inserts the record.
func (s *Service) AddProduct(in ProductInput) (domain.Medicine, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Medicine{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(in.QtyLeft), 10, 64)
	if err != nil || qty < 0 {
		return domain.Medicine{}, fmt.Errorf("%w: quantity must be a non-negative integer", domain.ErrValidation)
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(in.Cost), 64)
	if err != nil || cost < 0 {
		return domain.Medicine{}, fmt.Errorf("%w: cost must be a non-negative number", domain.ErrValidation)
	}

	maxID, err := s.store.MaxID()
	if err != nil {
		return domain.Medicine{}, err
	}

	med := domain.Medicine{
		ID:      maxID + 1,
		Name:    in.Name,
		Type:    in.Type,
		QtyLeft: qty,
		Cost:    cost,
		Purpose: in.Purpose,
		ExpDate: in.ExpDate,
		Rack:    in.Rack,
		Mfg:     in.Mfg,
	}
	if err := s.store.Insert(med); err != nil {
		return domain.Medicine{}, err
	}
	return med, nil
}

// Deduct lowers the stock for id by qty, clamped at zero. A deduction larger
// than the stock on hand silently empties the shelf rather than failing.
// Returns the quantity left after the write.
func (s *Service) Deduct(id, qty int64) (int64, error) {
	med, err := s.store.FindByID(id)
	if err != nil {
		return 0, err
	}
	newQty := med.QtyLeft - qty
	if newQty < 0 {
		newQty = 0
	}
	if err := s.store.SetQuantity(id, newQty); err != nil {
		return 0, err
	}
	return newQty, nil
}

// Find returns the medicine with the given id.
func (s *Service) Find(id int64) (domain.Medicine, error) {
	return s.store.FindByID(id)
}
