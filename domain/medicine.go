package domain

// Medicine is one row of the pharmacy catalog. ExpDate is kept as the
// DD/MM/YY text the counter staff type in; internal/expiry parses it.
type Medicine struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Type    string  `db:"type" json:"type"`
	QtyLeft int64   `db:"qty_left" json:"qty_left"`
	Cost    float64 `db:"cost" json:"cost"`
	Purpose string  `db:"purpose" json:"purpose"`
	ExpDate string  `db:"exp_date" json:"exp_date"`
	Rack    string  `db:"rack" json:"rack"`
	Mfg     string  `db:"mfg" json:"mfg"`
}
