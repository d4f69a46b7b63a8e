package seed

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"medistock/m/internal/credentials"
)

// EnsureAdmin creates the default admin login if the credentials table does
// not have one yet. Seed failures are logged, not fatal: the operator can
// still be added by hand.
func EnsureAdmin(store *credentials.Store, password string, log logrus.FieldLogger) {
	if _, err := store.Lookup("admin"); err == nil {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("unable to hash admin password")
		return
	}
	if err := store.Insert("admin", string(hashed)); err != nil {
		log.WithError(err).Error("unable to seed admin credential")
		return
	}
	log.Info("seeded default admin credential")
}
