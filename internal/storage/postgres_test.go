package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_joinRecipients(t *testing.T) {
	t.Parallel()

	assert.Nil(t, joinRecipients(nil))

	single := joinRecipients([]string{"a@x.com"})
	if assert.NotNil(t, single) {
		assert.Equal(t, "a@x.com", *single)
	}

	multi := joinRecipients([]string{"a@x.com", "b@x.com"})
	if assert.NotNil(t, multi) {
		assert.Equal(t, "a@x.com;b@x.com", *multi)
	}
}

func Test_splitRecipients(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitRecipients(nil))

	empty := ""
	assert.Nil(t, splitRecipients(&empty))

	stored := "a@x.com;b@x.com"
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitRecipients(&stored))
}

func Test_splitRecipients_RoundTrip(t *testing.T) {
	t.Parallel()

	to := []string{"a@x.com", "b@x.com", "c@x.com"}
	assert.Equal(t, to, splitRecipients(joinRecipients(to)))
}
