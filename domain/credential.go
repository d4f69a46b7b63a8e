package domain

type Credential struct {
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
}
