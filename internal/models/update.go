package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownField marks an update payload containing a field outside the
// allow-list. The whole payload is rejected; no permitted field from the
// same payload is ever applied.
var ErrUnknownField = errors.New("invalid update field")

// UserUpdate carries a partial profile update. Nil fields were absent from
// the payload.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// TaskUpdate carries a partial task update. Nil fields were absent from the
// payload.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// checkAllowedFields rejects the payload as a whole if any key falls outside
// the allow-list, before anything is decoded into fields.
func checkAllowedFields(raw map[string]json.RawMessage, allowed ...string) error {
	for key := range raw {
		ok := false
		for _, field := range allowed {
			if key == field {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}
	return nil
}

func decodeField(raw map[string]json.RawMessage, key string, dest interface{}) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(value, dest); err != nil {
		return fmt.Errorf("invalid value for %q", key)
	}
	return nil
}

// ParseUserUpdate decodes a PATCH /users/me body, allowing only the name,
// email, password and age fields.
func ParseUserUpdate(data []byte) (*UserUpdate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := checkAllowedFields(raw, "name", "email", "password", "age"); err != nil {
		return nil, err
	}

	var upd UserUpdate
	if err := decodeField(raw, "name", &upd.Name); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "email", &upd.Email); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "password", &upd.Password); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "age", &upd.Age); err != nil {
		return nil, err
	}
	return &upd, nil
}

// ParseTaskUpdate decodes a PATCH /tasks/:id body, allowing only the
// description and completed fields.
func ParseTaskUpdate(data []byte) (*TaskUpdate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := checkAllowedFields(raw, "description", "completed"); err != nil {
		return nil, err
	}

	var upd TaskUpdate
	if err := decodeField(raw, "description", &upd.Description); err != nil {
		return nil, err
	}
	if err := decodeField(raw, "completed", &upd.Completed); err != nil {
		return nil, err
	}
	return &upd, nil
}
