package domain

// DefaultPageSize is the page size used when none is specified.
const DefaultPageSize = 50

// MaxPageSize caps the page size for list operations.
const MaxPageSize = 500

// PageRequest holds pagination parameters for list operations.
type PageRequest struct {
	Limit  int
	Offset int
}

// EffectiveLimit clamps the requested limit to [1, MaxPageSize].
func (p PageRequest) EffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		return MaxPageSize
	}
	return p.Limit
}

// EffectiveOffset returns the requested offset, never negative.
func (p PageRequest) EffectiveOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}
