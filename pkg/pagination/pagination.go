package pagination

const (
	defaultLimit = 20
	maxLimit     = 100
)

// NormalizeLimit clamps a caller-provided page size to sane bounds.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// LimitWithBuffer fetches one extra row so the repository can detect
// whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}
