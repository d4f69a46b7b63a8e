package billing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medistock/m/domain"
	"medistock/m/internal/inventory"
)

// Workflow accumulates bill lines for the single open sale at the counter.
// One instance serves one operator session; all calls are sequential.
type Workflow struct {
	inv      *inventory.Service
	log      logrus.FieldLogger
	dir      string
	currency string
	lines    []domain.BillLine
}

func New(inv *inventory.Service, log logrus.FieldLogger, dir, currency string) *Workflow {
	return &Workflow{inv: inv, log: log, dir: dir, currency: currency}
}

// AddLine appends a line for the given medicine. The catalog row must exist
// at add time; its cost is re-read again on every render, so a price change
// between adds shows up in earlier lines too.
func (w *Workflow) AddLine(medicineID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	med, err := w.inv.Find(medicineID)
	if err != nil {
		return err
	}
	w.lines = append(w.lines, domain.BillLine{MedicineID: medicineID, Name: med.Name, Quantity: qty})
	return nil
}

// Lines returns the accumulated lines of the open bill.
func (w *Workflow) Lines() []domain.BillLine {
	return w.lines
}

// Empty reports whether the workflow holds no lines.
func (w *Workflow) Empty() bool {
	return len(w.lines) == 0
}

// RenderSummary recomputes the full receipt text from current catalog state.
// Lines whose medicine has since been deleted are skipped, matching the
// counter display behavior.
func (w *Workflow) RenderSummary() (string, error) {
	rule := strings.Repeat("=", 40)
	var b strings.Builder
	b.WriteString("Bill Summary\n")
	b.WriteString(rule + "\n")

	total := decimal.Zero
	for _, line := range w.lines {
		med, err := w.inv.Find(line.MedicineID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		price := decimal.NewFromFloat(med.Cost)
		cost := price.Mul(decimal.NewFromInt(line.Quantity))
		total = total.Add(cost)
		fmt.Fprintf(&b, "%s: %d x %s %s = %s %s\n",
			line.Name, line.Quantity, w.currency, price.StringFixed(2), w.currency, cost.StringFixed(2))
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total: %s %s\n", w.currency, total.StringFixed(2))
	return b.String(), nil
}

// Commit writes the rendered receipt to a bill_<nnn>.txt artifact and then
// deducts stock line by line. The deduction loop stops at the first failure
// with no rollback of earlier lines; each outcome is logged so a partial
// commit can be reconciled by hand. On success the workflow is emptied.
// Returns the artifact path.
func (w *Workflow) Commit() (string, error) {
	summary, err := w.RenderSummary()
	if err != nil {
		return "", err
	}

	// Random 3-digit bill number, as printed on the paper slip. Collisions
	// overwrite silently.
	name := fmt.Sprintf("bill_%d.txt", rand.IntN(900)+100)
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return "", fmt.Errorf("write bill %s: %w: %v", name, domain.ErrStorage, err)
	}

	for i, line := range w.lines {
		left, err := w.inv.Deduct(line.MedicineID, line.Quantity)
		if err != nil {
			w.log.WithFields(logrus.Fields{
				"bill":        name,
				"medicine_id": line.MedicineID,
				"line":        i + 1,
				"deducted":    i,
				"total_lines": len(w.lines),
			}).WithError(err).Error("bill commit aborted; earlier lines already deducted")
			return path, fmt.Errorf("deduct line %d of %d: %w", i+1, len(w.lines), err)
		}
		w.log.WithFields(logrus.Fields{
			"bill":        name,
			"medicine_id": line.MedicineID,
			"quantity":    line.Quantity,
			"qty_left":    left,
		}).Info("bill line deducted")
	}

	w.lines = nil
	return path, nil
}

// Reset discards all lines without writing an artifact or touching stock.
// Resetting an empty workflow is a no-op.
func (w *Workflow) Reset() {
	w.lines = nil
}
