package enums

// VerificationMethod is how a user proves control of a contact channel.
type VerificationMethod string

const (
	VerificationMethodPhone VerificationMethod = "phone"
	VerificationMethodEmail VerificationMethod = "email"
	VerificationMethodID    VerificationMethod = "id"
)

func (m VerificationMethod) IsValid() bool {
	switch m {
	case VerificationMethodPhone, VerificationMethodEmail, VerificationMethodID:
		return true
	}
	return false
}

// RequiresCode reports whether the method uses a challenge code. The id
// method goes through manual review and never carries one.
func (m VerificationMethod) RequiresCode() bool {
	return m == VerificationMethodPhone || m == VerificationMethodEmail
}

// VerificationStatus tracks the challenge lifecycle.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
)
