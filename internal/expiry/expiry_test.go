package expiry

import (
	"errors"
	"testing"
	"time"

	"medistock/m/domain"
)

func TestCheckBoundary(t *testing.T) {
	cases := []struct {
		name   string
		expiry string
		today  time.Time
		want   Status
	}{
		{"expires today is valid", "01/01/25", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC), Valid},
		{"day after is expired", "01/01/25", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Expired},
		{"well before expiry", "31/12/25", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Valid},
		{"well after expiry", "05/03/24", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Check(tc.expiry, tc.today)
			if err != nil {
				t.Fatalf("Check(%q): %v", tc.expiry, err)
			}
			if got != tc.want {
				t.Errorf("Check(%q, %s) = %v, want %v", tc.expiry, tc.today.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestCheckCenturyPivot(t *testing.T) {
	// Two-digit years land in the 2000s: 31/12/25 is 2025, not 1925.
	got, err := Check("31/12/25", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got != Expired {
		t.Errorf("Check after pivot year = %v, want Expired", got)
	}
}

func TestCheckBadFormat(t *testing.T) {
	for _, bad := range []string{"2025-12-31", "31-12-25", "soon", "", "31/12/2025"} {
		_, err := Check(bad, time.Now())
		if !errors.Is(err, domain.ErrDateFormat) {
			t.Errorf("Check(%q) err = %v, want ErrDateFormat", bad, err)
		}
	}
}

func TestCheckTrimsWhitespace(t *testing.T) {
	got, err := Check("  01/01/25  ", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got != Valid {
		t.Errorf("Check = %v, want Valid", got)
	}
}
