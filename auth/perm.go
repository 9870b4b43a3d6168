// Package auth turns validated user records into the authorization table
// consumed by the FTP protocol engine: a lookup from username to password,
// resolved home directory, and permission set.
package auth

import (
	"fmt"
	"strings"

	"github.com/lanshare/ftpd/config"
)

// Perm is a set of account capabilities, one bit per character of the
// permission alphabet "elradfmw".
type Perm uint8

const (
	// PermEnter allows changing into directories (e).
	PermEnter Perm = 1 << iota
	// PermList allows listing directory contents (l).
	PermList
	// PermRead allows retrieving files (r).
	PermRead
	// PermAppend allows appending to existing files (a).
	PermAppend
	// PermDelete allows deleting files and directories (d).
	PermDelete
	// PermRename allows renaming files and directories (f).
	PermRename
	// PermMkdir allows creating directories (m).
	PermMkdir
	// PermWrite allows storing files (w).
	PermWrite
)

var permBits = map[byte]Perm{
	'e': PermEnter,
	'l': PermList,
	'r': PermRead,
	'a': PermAppend,
	'd': PermDelete,
	'f': PermRename,
	'm': PermMkdir,
	'w': PermWrite,
}

// ParsePerm parses a permission string. Characters outside the alphabet and
// repeated characters are rejected with a *config.ValidationError.
func ParsePerm(s string) (Perm, error) {
	var p Perm
	for _, c := range []byte(s) {
		bit, ok := permBits[c]
		if !ok {
			return 0, &config.ValidationError{
				Field:  "perm",
				Reason: fmt.Sprintf("unknown permission character %q (alphabet %q)", string(c), config.PermAlphabet),
			}
		}
		if p&bit != 0 {
			return 0, &config.ValidationError{
				Field:  "perm",
				Reason: fmt.Sprintf("duplicated permission character %q", string(c)),
			}
		}
		p |= bit
	}
	return p, nil
}

// Has reports whether every capability in q is granted.
func (p Perm) Has(q Perm) bool {
	return p&q == q
}

// String renders the set in canonical "elradfmw" order.
func (p Perm) String() string {
	var b strings.Builder
	for _, c := range []byte(config.PermAlphabet) {
		if p&permBits[c] != 0 {
			b.WriteByte(c)
		}
	}
	return b.String()
}
