package config

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestValidateAcceptsDefault(t *testing.T) {
	cfg := Default()
	assert.NilError(t, Validate(&cfg))
}

func TestValidateAcceptsPassiveRange(t *testing.T) {
	cfg := Default()
	cfg.PassivePorts = []int{50000, 50100}
	assert.NilError(t, Validate(&cfg))
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port beyond range", func(c *Config) { c.Port = 99999 }, "port"},
		{"port negative", func(c *Config) { c.Port = -21 }, "port"},
		{"listen blank", func(c *Config) { c.Listen = "  " }, "listen"},
		{"max_cons zero", func(c *Config) { c.MaxCons = 0 }, "max_cons"},
		{"max_cons_per_ip negative", func(c *Config) { c.MaxConsPerIP = -1 }, "max_cons_per_ip"},
		{"passive wrong arity", func(c *Config) { c.PassivePorts = []int{50000} }, "passive_ports"},
		{"passive below floor", func(c *Config) { c.PassivePorts = []int{100, 2000} }, "passive_ports"},
		{"passive above ceiling", func(c *Config) { c.PassivePorts = []int{50000, 70000} }, "passive_ports"},
		{"passive inverted", func(c *Config) { c.PassivePorts = []int{50100, 50000} }, "passive_ports"},
		{"no users", func(c *Config) { c.Users = nil }, "users"},
		{"username blank", func(c *Config) { c.Users[0].Username = " " }, "users[0].username"},
		{"password blank", func(c *Config) { c.Users[0].Password = "" }, "users[0].password"},
		{"perm unknown char", func(c *Config) { c.Users[0].Perm = "elrz" }, "users[0].perm"},
		{"perm repeated char", func(c *Config) { c.Users[0].Perm = "ee" }, "users[0].perm"},
		{
			"duplicate username",
			func(c *Config) {
				c.Users = append(c.Users, User{Username: "user", Password: "other"})
			},
			"users[1].username",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := Validate(&cfg)
			var verr *ValidationError
			assert.Assert(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, verr.Field, tc.field)
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	// port is checked before users, so its failure is the one reported
	cfg := Default()
	cfg.Port = 0
	cfg.Users = nil

	err := Validate(&cfg)
	var verr *ValidationError
	assert.Assert(t, errors.As(err, &verr))
	assert.Equal(t, verr.Field, "port")
}

func TestValidateUsersEmptyPermAllowed(t *testing.T) {
	assert.NilError(t, ValidateUsers([]User{{Username: "alice", Password: "secret"}}))
}
