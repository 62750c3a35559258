package membership

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

func TestErrors(t *testing.T) {
	var errs Errors
	assert.True(t, errs.IsEmpty())
	assert.Empty(t, errs.Messages())

	errs.Add("a")
	errs.AddAll("b", "a")
	assert.False(t, errs.IsEmpty())
	assert.Equal(t, 3, errs.Len())
	assert.Equal(t, []string{"a", "b", "a"}, errs.Messages())
	assert.Equal(t, "a, b, a", errs.Join(", "))
}

func TestErrors_MessagesIsCopy(t *testing.T) {
	var errs Errors
	errs.Add("a")
	msgs := errs.Messages()
	msgs[0] = "changed"
	assert.Equal(t, []string{"a"}, errs.Messages())
}

func TestErrors_AddError(t *testing.T) {
	var errs Errors
	assert.True(t, errs.AddError(store.Failures("x", "y")))
	assert.False(t, errs.AddError(errors.New("boom")))
	assert.Equal(t, []string{"x", "y"}, errs.Messages())
}

func TestNewResult(t *testing.T) {
	assert.Equal(t, Result{Succeeded: true}, NewResult(&Errors{}))
	assert.Equal(t, Result{Succeeded: true}, NewResult(nil))

	errs := &Errors{}
	errs.Add("nope")
	assert.Equal(t, Result{Succeeded: false, Errors: []string{"nope"}}, NewResult(errs))
}
