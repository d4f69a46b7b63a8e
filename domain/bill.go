package domain

// BillLine is one entry of an in-progress bill. Name and the unit cost are
// re-read from the catalog at render time, so the line only pins id and
// quantity.
type BillLine struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}
