package membership

import (
	"strings"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Errors accumulates user-facing failure messages in insertion order.
// Duplicates are kept. The zero value is ready to use.
type Errors struct {
	messages []string
}

// Add appends a single message
func (e *Errors) Add(message string) {
	e.messages = append(e.messages, message)
}

// AddAll appends messages in order
func (e *Errors) AddAll(messages ...string) {
	e.messages = append(e.messages, messages...)
}

// AddError appends the messages carried by a store validation error.
// It returns false, adding nothing, when err is not a validation error.
func (e *Errors) AddError(err error) bool {
	verr, ok := store.AsValidation(err)
	if !ok {
		return false
	}
	e.AddAll(verr.Messages...)
	return true
}

// Messages returns a copy of the collected messages
func (e *Errors) Messages() []string {
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}

func (e *Errors) IsEmpty() bool {
	return len(e.messages) == 0
}

func (e *Errors) Len() int {
	return len(e.messages)
}

// Join concatenates the messages with sep
func (e *Errors) Join(sep string) string {
	return strings.Join(e.messages, sep)
}
