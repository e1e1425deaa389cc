package validate

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalid matches every [Errors] value under errors.Is.
var ErrInvalid = errors.New("validation failed")

// Errors maps a form field to its message. A nil or empty Errors means the form is valid.
type Errors map[string]string

// Error lists the failing fields in a stable order.
func (e Errors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports ErrInvalid.
func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Fields returns the failing field names, sorted.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// First returns the message of the first failing field in [Errors.Fields] order, for
// callers that show a single notice.
func (e Errors) First() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return ""
	}
	return e[fields[0]]
}

func (e Errors) add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
