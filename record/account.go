package record

import "github.com/brettbedarf/docvault/node"

// Account attribute slots.
const (
	UsernameSlot      = "username"
	NameSlot          = "name"
	PhoneSlot         = "phone"
	EmailSlot         = "email"
	PasswordHashSlot  = "password_hash"
	PasswordSaltSlot  = "password_salt"
	PasswordAlgoSlot  = "password_algo"
	PasswordItersSlot = "password_iters"
	AdminSlot         = "admin"
)

// Account is a user record. Changing an account's ID goes through the
// AccountStore; an Account value keeps pointing at its old path afterwards.
type Account struct {
	n *node.Node
}

// AccountFactory is the Factory for accounts.
func AccountFactory(parent *node.Node, id string) *Account {
	return &Account{n: parent.Child(id)}
}

var _ Factory[*Account] = AccountFactory

// ID returns the account's identity (its directory name).
func (a *Account) ID() string {
	return a.n.Name()
}

// Exists reports whether the backing directory is still present.
func (a *Account) Exists() bool {
	return a.n.IsDir()
}

func (a *Account) Username() (string, bool)   { return getString(a.n, UsernameSlot) }
func (a *Account) SetUsername(v string) error { return a.n.WriteChildString(UsernameSlot, v) }

func (a *Account) Name() (string, bool)   { return getString(a.n, NameSlot) }
func (a *Account) SetName(v string) error { return a.n.WriteChildString(NameSlot, v) }

func (a *Account) Phone() (string, bool)   { return getString(a.n, PhoneSlot) }
func (a *Account) SetPhone(v string) error { return a.n.WriteChildString(PhoneSlot, v) }

func (a *Account) Email() (string, bool)   { return getString(a.n, EmailSlot) }
func (a *Account) SetEmail(v string) error { return a.n.WriteChildString(EmailSlot, v) }

// PasswordHash is the base64 derived key.
func (a *Account) PasswordHash() (string, bool)   { return getString(a.n, PasswordHashSlot) }
func (a *Account) SetPasswordHash(v string) error { return a.n.WriteChildString(PasswordHashSlot, v) }

// PasswordSalt is the base64 salt used for PasswordHash.
func (a *Account) PasswordSalt() (string, bool)   { return getString(a.n, PasswordSaltSlot) }
func (a *Account) SetPasswordSalt(v string) error { return a.n.WriteChildString(PasswordSaltSlot, v) }

func (a *Account) PasswordAlgo() (string, bool)   { return getString(a.n, PasswordAlgoSlot) }
func (a *Account) SetPasswordAlgo(v string) error { return a.n.WriteChildString(PasswordAlgoSlot, v) }

func (a *Account) PasswordIters() (int32, bool)   { return getInt32(a.n, PasswordItersSlot) }
func (a *Account) SetPasswordIters(v int32) error { return a.n.WriteChildInt32(PasswordItersSlot, v) }

func (a *Account) Admin() (bool, bool)   { return getBool(a.n, AdminSlot) }
func (a *Account) SetAdmin(v bool) error { return a.n.WriteChildBool(AdminSlot, v) }

// IsAdmin is Admin with unset treated as false.
func (a *Account) IsAdmin() bool {
	v, _ := a.Admin()
	return v
}

// DisplayName returns the username, or the ID when the username is unset or empty.
func (a *Account) DisplayName() string {
	if u, ok := a.Username(); ok && u != "" {
		return u
	}
	return a.ID()
}
