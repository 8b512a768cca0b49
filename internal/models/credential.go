// internal/models/credential.go

package models

// Credential is loaded once per process and never modified afterwards.
type Credential struct {
	Username string
	Password string
}

func (c Credential) Valid() bool {
	return c.Username != "" && c.Password != ""
}
