package config

import (
	"fmt"
	"strings"
)

// PermAlphabet is the set of recognized permission characters.
const PermAlphabet = "elradfmw"

// Validate applies every field-level invariant in a fixed order: port,
// listen address, connection limits, passive-port range, user-list
// non-emptiness, per-user fields, username uniqueness, and the permission
// alphabet. It is the STRICT validation mode: the first failing rule aborts
// with a *ValidationError, and nothing past it is checked. (The lenient
// counterpart lives in the runtime option applier.)
func Validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{Field: "port", Reason: fmt.Sprintf("must be in 1..65535, got %d", cfg.Port)}
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return &ValidationError{Field: "listen", Reason: "must be a non-empty bind address"}
	}
	if cfg.MaxCons <= 0 {
		return &ValidationError{Field: "max_cons", Reason: fmt.Sprintf("must be positive, got %d", cfg.MaxCons)}
	}
	if cfg.MaxConsPerIP <= 0 {
		return &ValidationError{Field: "max_cons_per_ip", Reason: fmt.Sprintf("must be positive, got %d", cfg.MaxConsPerIP)}
	}
	if cfg.PassivePorts != nil {
		if len(cfg.PassivePorts) != 2 {
			return &ValidationError{Field: "passive_ports", Reason: "must be a [start, end] pair"}
		}
		start, end := cfg.PassivePorts[0], cfg.PassivePorts[1]
		if start < 1024 || start > 65535 || end < 1024 || end > 65535 || start > end {
			return &ValidationError{
				Field:  "passive_ports",
				Reason: fmt.Sprintf("range %d..%d must lie in 1024..65535 with start <= end", start, end),
			}
		}
	}
	if len(cfg.Users) == 0 {
		return &ValidationError{Field: "users", Reason: "at least one [[users]] entry is required"}
	}
	return ValidateUsers(cfg.Users)
}

// ValidateUsers checks the per-user invariants: non-empty username and
// password, unique usernames, and permission strings drawn from PermAlphabet
// without repetition.
func ValidateUsers(users []User) error {
	seen := make(map[string]struct{}, len(users))
	for i, u := range users {
		username := strings.TrimSpace(u.Username)
		if username == "" {
			return &ValidationError{Field: fmt.Sprintf("users[%d].username", i), Reason: "must not be empty"}
		}
		if strings.TrimSpace(u.Password) == "" {
			return &ValidationError{Field: fmt.Sprintf("users[%d].password", i), Reason: "must not be empty"}
		}
		if _, dup := seen[username]; dup {
			return &ValidationError{Field: fmt.Sprintf("users[%d].username", i), Reason: fmt.Sprintf("duplicate username %q", username)}
		}
		seen[username] = struct{}{}
		if err := validatePerm(u.Perm, i); err != nil {
			return err
		}
	}
	return nil
}

func validatePerm(perm string, index int) error {
	if perm == "" {
		// absent perm falls back to DefaultPerm at build time
		return nil
	}
	var used [256]bool
	for _, c := range []byte(perm) {
		if !strings.ContainsRune(PermAlphabet, rune(c)) {
			return &ValidationError{
				Field:  fmt.Sprintf("users[%d].perm", index),
				Reason: fmt.Sprintf("unknown permission character %q (alphabet %q)", string(c), PermAlphabet),
			}
		}
		if used[c] {
			return &ValidationError{
				Field:  fmt.Sprintf("users[%d].perm", index),
				Reason: fmt.Sprintf("duplicated permission character %q", string(c)),
			}
		}
		used[c] = true
	}
	return nil
}
