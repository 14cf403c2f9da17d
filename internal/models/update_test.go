package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserUpdate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"all allowed fields", `{"name":"Ann","email":"ann@x.com","password":"secret123","age":30}`, false},
		{"subset of fields", `{"name":"Ann"}`, false},
		{"empty payload", `{}`, false},
		{"unknown field alone", `{"height":180}`, true},
		{"permitted plus disallowed", `{"name":"Ann","height":180}`, true},
		{"owner injection", `{"id":"someone-else"}`, true},
		{"not json", `"name"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, err := ParseUserUpdate([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, upd)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseUserUpdateRejectsWholePayload(t *testing.T) {
	// A payload mixing a permitted and a disallowed field must fail as a
	// whole: no partial result is handed back for the permitted part.
	upd, err := ParseUserUpdate([]byte(`{"name":"Ann","role":"admin"}`))
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Nil(t, upd)
}

func TestParseUserUpdateFields(t *testing.T) {
	upd, err := ParseUserUpdate([]byte(`{"name":"Ann","age":30}`))
	require.NoError(t, err)

	require.NotNil(t, upd.Name)
	assert.Equal(t, "Ann", *upd.Name)
	require.NotNil(t, upd.Age)
	assert.Equal(t, 30, *upd.Age)
	assert.Nil(t, upd.Email)
	assert.Nil(t, upd.Password)
}

func TestParseTaskUpdate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"description and completed", `{"description":"buy milk","completed":true}`, false},
		{"completed only", `{"completed":false}`, false},
		{"owner not mutable", `{"owner":"someone-else"}`, true},
		{"mixed valid and invalid", `{"completed":true,"priority":1}`, true},
		{"wrong type", `{"completed":"yes"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, err := ParseTaskUpdate([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, upd)
				return
			}
			require.NoError(t, err)
		})
	}
}
