package auth

import (
	"io"
	"os"
	"time"

	"github.com/gonzalop/ftp/server"
)

// Driver implements the protocol engine's server.Driver against a Table.
// This is the sole data handoff into the engine besides the handler options:
// username, password, resolved home, and permission set.
type Driver struct {
	table    *Table
	settings *server.Settings
	fs       map[string]*server.FSDriver
}

// NewDriver builds the engine driver for table. Every account gets a
// filesystem driver jailed to its home directory; settings carries the
// passive-mode configuration into each session. The home directories must
// exist, which Build guarantees.
func NewDriver(table *Table, settings *server.Settings) (*Driver, error) {
	d := &Driver{
		table:    table,
		settings: settings,
		fs:       make(map[string]*server.FSDriver, table.Len()),
	}
	for _, username := range table.Usernames() {
		entry, _ := table.Lookup(username)
		home := entry.Home
		fsDriver, err := server.NewFSDriver(home,
			server.WithAuthenticator(func(string, string, string) (string, bool, error) {
				return home, false, nil
			}),
			server.WithSettings(settings),
		)
		if err != nil {
			return nil, err
		}
		d.fs[username] = fsDriver
	}
	return d, nil
}

// Authenticate matches the username and password verbatim against the table
// and returns a permission-gated session context rooted at the account's
// home directory.
func (d *Driver) Authenticate(user, pass, host string) (server.ClientContext, error) {
	entry, ok := d.table.Lookup(user)
	if !ok || entry.Password != pass {
		return nil, os.ErrPermission
	}
	inner, err := d.fs[user].Authenticate(user, pass, host)
	if err != nil {
		return nil, err
	}
	return &permContext{inner: inner, perm: entry.Perm}, nil
}

// permContext enforces the account's permission set in front of the
// filesystem context. Denied operations return os.ErrPermission, which the
// engine translates to the appropriate FTP response.
type permContext struct {
	inner server.ClientContext
	perm  Perm
}

func (c *permContext) ChangeDir(path string) error {
	if !c.perm.Has(PermEnter) {
		return os.ErrPermission
	}
	return c.inner.ChangeDir(path)
}

func (c *permContext) GetWd() (string, error) {
	return c.inner.GetWd()
}

func (c *permContext) MakeDir(path string) error {
	if !c.perm.Has(PermMkdir) {
		return os.ErrPermission
	}
	return c.inner.MakeDir(path)
}

func (c *permContext) RemoveDir(path string) error {
	if !c.perm.Has(PermDelete) {
		return os.ErrPermission
	}
	return c.inner.RemoveDir(path)
}

func (c *permContext) DeleteFile(path string) error {
	if !c.perm.Has(PermDelete) {
		return os.ErrPermission
	}
	return c.inner.DeleteFile(path)
}

func (c *permContext) Rename(fromPath, toPath string) error {
	if !c.perm.Has(PermRename) {
		return os.ErrPermission
	}
	return c.inner.Rename(fromPath, toPath)
}

func (c *permContext) ListDir(path string) ([]os.FileInfo, error) {
	if !c.perm.Has(PermList) {
		return nil, os.ErrPermission
	}
	return c.inner.ListDir(path)
}

// OpenFile gates reads on r, appends on a, and stores on w.
func (c *permContext) OpenFile(path string, flag int) (io.ReadWriteCloser, error) {
	switch {
	case flag&(os.O_WRONLY|os.O_RDWR) == 0:
		if !c.perm.Has(PermRead) {
			return nil, os.ErrPermission
		}
	case flag&os.O_APPEND != 0:
		if !c.perm.Has(PermAppend) {
			return nil, os.ErrPermission
		}
	default:
		if !c.perm.Has(PermWrite) {
			return nil, os.ErrPermission
		}
	}
	return c.inner.OpenFile(path, flag)
}

func (c *permContext) GetFileInfo(path string) (os.FileInfo, error) {
	return c.inner.GetFileInfo(path)
}

func (c *permContext) GetHash(path string, algo string) (string, error) {
	if !c.perm.Has(PermRead) {
		return "", os.ErrPermission
	}
	return c.inner.GetHash(path, algo)
}

func (c *permContext) SetTime(path string, t time.Time) error {
	if !c.perm.Has(PermWrite) {
		return os.ErrPermission
	}
	return c.inner.SetTime(path, t)
}

func (c *permContext) Chmod(path string, mode os.FileMode) error {
	if !c.perm.Has(PermWrite) {
		return os.ErrPermission
	}
	return c.inner.Chmod(path, mode)
}

func (c *permContext) Close() error {
	return c.inner.Close()
}

func (c *permContext) GetSettings() *server.Settings {
	return c.inner.GetSettings()
}
