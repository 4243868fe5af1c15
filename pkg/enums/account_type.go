package enums

// AccountType is the renter/owner role distinction gating route access.
type AccountType string

const (
	AccountTypeRenter AccountType = "renter"
	AccountTypeOwner  AccountType = "owner"
	AccountTypeUnset  AccountType = ""
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeRenter, AccountTypeOwner:
		return true
	}
	return false
}

// IsSet reports whether a concrete type has been chosen.
func (t AccountType) IsSet() bool {
	return t.IsValid()
}

// ParseAccountType maps a raw cookie/body value onto an AccountType.
// Unknown values collapse to unset so a tampered cookie degrades to the
// most restrictive state instead of failing the request.
func ParseAccountType(raw string) AccountType {
	switch AccountType(raw) {
	case AccountTypeRenter:
		return AccountTypeRenter
	case AccountTypeOwner:
		return AccountTypeOwner
	}
	return AccountTypeUnset
}
