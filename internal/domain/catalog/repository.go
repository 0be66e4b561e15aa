package catalog

import "context"

// Repository provides read access to the error catalog reference data
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Entry, error)
	ListActive(ctx context.Context) ([]Entry, error)
}

// ErrEntryNotFound indicates an unknown catalog code
type ErrEntryNotFound struct {
	Code string
}

func (e ErrEntryNotFound) Error() string {
	return "catalog entry not found: " + e.Code
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.Code == "" {
		return true
	}
	return e.Code == t.Code
}
