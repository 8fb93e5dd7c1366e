package session

import "errors"

// ErrNotSignedIn is returned by repositories for writes that require an
// authenticated account when the provider has none.
var ErrNotSignedIn = errors.New("session: not signed in")

// Account is the locally held authenticated identity. Ownership checks and
// like scoping compare against its ID; no remote check is involved.
type Account struct {
	ID        int
	FirstName string
	LastName  string
	Pro       bool
}

// Provider exposes the current authenticated account. Sign-in itself is
// handled outside this layer; repositories only read the result.
type Provider interface {
	// Account returns the signed-in account, or nil when signed out.
	Account() *Account
}

// Static is a Provider with a fixed account, fed from configuration. It
// matches the single-signed-in-account model of the mobile clients.
type Static struct {
	Acc *Account
}

func (s Static) Account() *Account {
	return s.Acc
}

// Config holds configuration for the static session provider.
type Config struct {
	// AccountID is the id of the signed-in account (0 = signed out).
	AccountID int `mapstructure:"account_id" default:"0"`
	// FirstName is the signed-in account's first name.
	FirstName string `mapstructure:"first_name" default:""`
	// LastName is the signed-in account's last name.
	LastName string `mapstructure:"last_name" default:""`
}

// FromConfig builds a static provider from configuration.
func FromConfig(cfg Config) Provider {
	if cfg.AccountID == 0 {
		return Static{}
	}
	return Static{Acc: &Account{
		ID:        cfg.AccountID,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
	}}
}
