package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     EmailMessage
		wantErr bool
	}{
		{
			name: "valid single recipient",
			msg:  EmailMessage{To: []string{"a@x.com"}, Subject: "hi"},
		},
		{
			name: "valid multiple recipients",
			msg:  EmailMessage{To: []string{"a@x.com", "b@y.org"}},
		},
		{
			name:    "nil recipients",
			msg:     EmailMessage{Subject: "hi"},
			wantErr: true,
		},
		{
			name:    "empty recipients",
			msg:     EmailMessage{To: []string{}},
			wantErr: true,
		},
		{
			name:    "blank recipient entry",
			msg:     EmailMessage{To: []string{""}},
			wantErr: true,
		},
		{
			// Recipients are opaque strings; only presence is validated.
			name: "free-form recipient",
			msg:  EmailMessage{To: []string{"ops-team"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
