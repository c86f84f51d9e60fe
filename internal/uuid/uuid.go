// Package uuid wraps google/uuid so that IDs can be bound from URIs
// and query strings by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam implements gin's binding.BindUnmarshaler.
// The empty string binds to Nil.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}

// IsNil reports if the UUID is unset.
func (u UUID) IsNil() bool {
	return u.UUID == google_uuid.Nil
}
