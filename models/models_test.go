package models

import (
	"encoding/json"
	"testing"
)

func TestRoleUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{`"ADMIN"`, RoleAdmin, false},
		{`"USER"`, RoleUser, false},
		{`"admin"`, "", true},
		{`"SUPERUSER"`, "", true},
		{`1`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var r Role
			err := json.Unmarshal([]byte(tt.input), &r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if r != tt.want {
				t.Errorf("Role = %q, want %q", r, tt.want)
			}
		})
	}
}

func TestProjectStatusUnmarshal(t *testing.T) {
	t.Parallel()

	var s ProjectStatus
	if err := json.Unmarshal([]byte(`"EM_ANDAMENTO"`), &s); err != nil || s != StatusEmAndamento {
		t.Fatalf("Unmarshal EM_ANDAMENTO = %q, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"ARQUIVADO"`), &s); err == nil {
		t.Fatal("Unmarshal ARQUIVADO should fail")
	}
}

func TestUserHidesPasswordHash(t *testing.T) {
	t.Parallel()

	hash := "$2a$10$abcdefghijklmnopqrstuv"
	out, err := json.Marshal(User{ID: 1, Email: "a@b.dev", PasswordHash: &hash, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := fields["passwordHash"]; ok {
		t.Error("password hash serialized")
	}
	if _, ok := fields["PasswordHash"]; ok {
		t.Error("password hash serialized")
	}
}

func TestFindColumnMismatches(t *testing.T) {
	t.Parallel()

	got := findColumnMismatches([]string{"id", "title", "legacy_slug"}, []string{"id", "title"})
	if len(got) != 1 || got[0] != "legacy_slug" {
		t.Errorf("findColumnMismatches() = %v, want [legacy_slug]", got)
	}
}
