package studio

import "fmt"

// DomainError reports an out-of-range index passed to a runtime setter.
type DomainError struct {
	// Kind names the indexed collection ("sequence", "bone controller", ...).
	Kind string
	// Index is the rejected index.
	Index int
	// Count is the size of the collection.
	Count int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("studio: %s index %d out of range [0, %d)", e.Kind, e.Index, e.Count)
}

// NewDomainError builds a DomainError for an index outside [0, count).
//
// Parameters:
//   - kind: the name of the indexed collection
//   - index: the rejected index
//   - count: the number of elements in the collection
//
// Returns:
//   - *DomainError: the error
func NewDomainError(kind string, index, count int) *DomainError {
	return &DomainError{Kind: kind, Index: index, Count: count}
}

// CheckIndex returns a DomainError when index is outside [0, count), nil otherwise.
func CheckIndex(kind string, index, count int) error {
	if index < 0 || index >= count {
		return NewDomainError(kind, index, count)
	}
	return nil
}

// ConfigurationError reports malformed model data detected at load or build time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "studio: invalid model: " + e.Reason
}

// NewConfigurationError formats a ConfigurationError.
//
// Parameters:
//   - format: a fmt format string describing the problem
//   - args: the format arguments
//
// Returns:
//   - *ConfigurationError: the error
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
