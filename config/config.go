// Package config loads, validates, and persists the FTP server's TOML
// configuration document. It is the single source of truth for server
// parameters and user records; an invalid document never reaches the server
// lifecycle.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/lanshare/ftpd/internal/i18n"
)

// Defaults for the configuration document.
const (
	DefaultConfigName = "config.toml"
	DefaultSharedDir  = "shared"

	DefaultPort         = 2121
	DefaultListen       = "0.0.0.0"
	DefaultMaxCons      = 256
	DefaultMaxConsPerIP = 10
	DefaultLanguage     = i18n.LocaleZhCN
	DefaultBanner       = "Welcome to the FTP server"

	// DefaultPerm grants every capability of the permission alphabet.
	DefaultPerm = "elradfmw"
)

// Config is the persisted configuration document.
//
// Field order matters: it is the deterministic serialization order, and the
// users array-of-tables must come last to produce valid TOML.
type Config struct {
	Port         int    `toml:"port"`
	Listen       string `toml:"listen"`
	MaxCons      int    `toml:"max_cons"`
	MaxConsPerIP int    `toml:"max_cons_per_ip"`
	PassivePorts []int  `toml:"passive_ports,omitempty"`
	Banner       string `toml:"banner,omitempty"`
	Language     string `toml:"language"`
	Users        []User `toml:"users"`
}

// User is one account entry. Password is stored and matched verbatim;
// there is no hashing.
type User struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Perm     string `toml:"perm,omitempty"`
	Home     string `toml:"home,omitempty"`
}

// Default returns the documented default configuration: the document that is
// synthesized when no configuration file exists.
func Default() Config {
	return Config{
		Port:         DefaultPort,
		Listen:       DefaultListen,
		MaxCons:      DefaultMaxCons,
		MaxConsPerIP: DefaultMaxConsPerIP,
		Banner:       DefaultBanner,
		Language:     DefaultLanguage,
		Users: []User{
			{Username: "user", Password: "123456", Perm: DefaultPerm},
		},
	}
}

// defaultTemplate is written when the configuration file is absent. Unlike
// Write's output it carries an explanatory comment for every field and every
// permission character; the two parse to the same document.
const defaultTemplate = `# FTP server configuration file

# Server settings
port = 2121
listen = "0.0.0.0"

# Connection limits
max_cons = 256
max_cons_per_ip = 10

# Passive mode port range (optional)
# passive_ports = [50000, 50100]

# Welcome banner shown to clients on connect (optional)
banner = "Welcome to the FTP server"

# Log language: zh_CN, en_US, or "auto" for host-locale detection
language = "zh_CN"

# User accounts. The perm string toggles one capability per character:
#   e  enter directories    l  list contents
#   r  retrieve files       a  append to files
#   d  delete               f  rename
#   m  make directories     w  store files
[[users]]
username = "user"
password = "123456"
perm = "elradfmw"
# home = "./data/user"  # optional; the shared directory is used when absent
`

// Store reads and writes configuration documents. The sink receives
// structured events such as "config_created"; pass nil to discard them.
type Store struct {
	sink i18n.Sink
}

// NewStore returns a Store emitting events to sink.
func NewStore(sink i18n.Sink) *Store {
	if sink == nil {
		sink = i18n.Discard
	}
	return &Store{sink: sink}
}

// Read loads and validates the configuration at path. When the file is
// absent it first persists the commented default template, emits a
// config_created event, and reads that back.
//
// Errors are *IOError (create/read failure), *ParseError (malformed TOML),
// or *ValidationError (invariant violation).
func (s *Store) Read(path string) (Config, error) {
	if !fileutils.FileExists(path) {
		if err := s.createDefault(path); err != nil {
			return Config{}, err
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &IOError{Op: "read", Path: path, Err: err}
	}

	// Absent keys keep their documented defaults. Users is deliberately
	// not seeded: a document without accounts must fail validation.
	cfg := Config{
		Port:         DefaultPort,
		Listen:       DefaultListen,
		MaxCons:      DefaultMaxCons,
		MaxConsPerIP: DefaultMaxConsPerIP,
		Language:     DefaultLanguage,
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write serializes cfg deterministically and replaces the file at path in a
// single rename, so a failed write never corrupts the previous document.
// Parent directories are created as needed.
func (s *Store) Write(cfg Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "replace", Path: path, Err: err}
	}
	return nil
}

func (s *Store) createDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "create directory", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	s.sink.Emit(i18n.LevelInfo, "config_created", map[string]any{"path": path})
	return nil
}
