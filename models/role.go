package models

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of privileges a user can hold.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Role(s).Valid() {
		return fmt.Errorf("invalid role %q", s)
	}
	*r = Role(s)
	return nil
}

// ProjectStatus is the lifecycle stage shown next to a project.
type ProjectStatus string

const (
	StatusConcluido   ProjectStatus = "CONCLUIDO"
	StatusEmAndamento ProjectStatus = "EM_ANDAMENTO"
	StatusPausado     ProjectStatus = "PAUSADO"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusConcluido, StatusEmAndamento, StatusPausado:
		return true
	}
	return false
}

func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !ProjectStatus(raw).Valid() {
		return fmt.Errorf("invalid project status %q", raw)
	}
	*s = ProjectStatus(raw)
	return nil
}
