package auth

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lanshare/ftpd/config"
	"github.com/lanshare/ftpd/internal/i18n"
)

// Entry is one resolved account: verbatim password, absolute home
// directory, and permission set.
type Entry struct {
	Password string
	Home     string
	Perm     Perm
}

// Table maps usernames to resolved account entries. It preserves the
// document order of the user records so status listings are stable.
type Table struct {
	entries map[string]Entry
	order   []string
}

// Lookup returns the entry for username.
func (t *Table) Lookup(username string) (Entry, bool) {
	e, ok := t.entries[username]
	return e, ok
}

// Usernames returns the usernames in document order.
func (t *Table) Usernames() []string {
	return t.order
}

// Len returns the number of accounts.
func (t *Table) Len() int {
	return len(t.entries)
}

// Build resolves the configuration's user records into a Table bound to
// sharedDir. Accounts without a home use sharedDir; relative homes resolve
// against the current working directory, not the configuration file's
// directory. Every home directory is created if missing.
//
// The user records are re-validated first, so Build is safe to
// call on a document that skipped config.Validate, and no directory is
// created when any record is invalid. Build never mutates cfg.
func Build(cfg *config.Config, sharedDir string, sink i18n.Sink) (*Table, error) {
	if sink == nil {
		sink = i18n.Discard
	}
	if len(cfg.Users) == 0 {
		return nil, &config.ValidationError{Field: "users", Reason: "at least one [[users]] entry is required"}
	}
	if err := config.ValidateUsers(cfg.Users); err != nil {
		return nil, err
	}

	t := &Table{entries: make(map[string]Entry, len(cfg.Users))}
	for _, u := range cfg.Users {
		username := strings.TrimSpace(u.Username)
		password := strings.TrimSpace(u.Password)

		permStr := u.Perm
		if permStr == "" {
			permStr = config.DefaultPerm
		}
		perm, err := ParsePerm(permStr)
		if err != nil {
			return nil, err
		}

		home := sharedDir
		if u.Home != "" {
			home, err = resolveHome(u.Home)
			if err != nil {
				return nil, err
			}
		}
		if err := ensureDir(home); err != nil {
			return nil, err
		}

		t.entries[username] = Entry{Password: password, Home: home, Perm: perm}
		t.order = append(t.order, username)
		sink.Emit(i18n.LevelInfo, "user_added", map[string]any{"username": username, "home": home})
	}
	return t, nil
}

// resolveHome expands a leading ~ and makes the path absolute against the
// current working directory.
func resolveHome(home string) (string, error) {
	if home == "~" || strings.HasPrefix(home, "~/") {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", &config.IOError{Op: "resolve", Path: home, Err: err}
		}
		home = filepath.Join(userHome, strings.TrimPrefix(home, "~"))
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return "", &config.IOError{Op: "resolve", Path: home, Err: err}
	}
	return abs, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &config.IOError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}
