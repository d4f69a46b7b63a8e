package expiry

import (
	"fmt"
	"strings"
	"time"

	"medistock/m/domain"
)

// Layout is the stored expiry format, DD/MM/YY with a 2000s century pivot.
const Layout = "02/01/06"

type Status int

const (
	Valid Status = iota
	Expired
)

func (s Status) String() string {
	if s == Expired {
		return "expired"
	}
	return "valid"
}

// Check compares a stored expiry string against today. A medicine expiring
// today is still valid; only today > expiry is Expired. Parse failures wrap
// ErrDateFormat and keep the underlying cause for logs.
func Check(expiryText string, today time.Time) (Status, error) {
	exp, err := time.Parse(Layout, strings.TrimSpace(expiryText))
	if err != nil {
		return Valid, fmt.Errorf("%w: %v", domain.ErrDateFormat, err)
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(exp) {
		return Expired, nil
	}
	return Valid, nil
}
