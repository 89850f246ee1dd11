package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is reports whether target is a DOMError with the same name, so callers
// can match with errors.Is(err, dom.ErrNotFound("")).
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name
}

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}
