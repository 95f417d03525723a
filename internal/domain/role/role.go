// Package role defines the family membership role hierarchy.
package role

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is a closed, totally ordered privilege level. The zero value is
// Viewer, the lowest privilege.
type Role uint8

const (
	Viewer Role = iota
	Member
	Admin
	Owner
)

func (r Role) String() string {
	switch r {
	case Viewer:
		return "viewer"
	case Member:
		return "member"
	case Admin:
		return "admin"
	case Owner:
		return "owner"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Parse maps the stored string form back to a Role. Unknown values are an
// error, never a silent default.
func Parse(value string) (Role, error) {
	switch value {
	case "viewer":
		return Viewer, nil
	case "member":
		return Member, nil
	case "admin":
		return Admin, nil
	case "owner":
		return Owner, nil
	}
	return Viewer, fmt.Errorf("unknown role %q", value)
}

// Level returns the ordering rank: viewer(0) < member(1) < admin(2) < owner(3).
func (r Role) Level() int {
	return int(r)
}

// CanEdit reports whether the role may create, update, or delete family
// data. Every role except viewer may.
func (r Role) CanEdit() bool {
	return r != Viewer
}

// CanManage reports whether the role may manage membership and family
// settings.
func (r Role) CanManage() bool {
	return r == Admin || r == Owner
}

func (r Role) IsOwner() bool {
	return r == Owner
}

func (r Role) Valid() bool {
	return r <= Owner
}

// MarshalJSON renders the role as its string form.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := Parse(value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer so the role is stored as its string form.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return r.String(), nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	return fmt.Errorf("cannot scan role from %T", src)
}
