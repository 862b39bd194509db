// Package repository implements the MySQL-backed credential and inventory
// stores.  Sentinel errors let the service layer tell misses and uniqueness
// violations apart from infrastructure failures without inspecting driver
// errors itself.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when an id- or name-keyed lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists and ErrEmailExists are returned by UserRepo.Insert when
// the corresponding unique index rejects the row.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// erDupEntry is MySQL's ER_DUP_ENTRY.
const erDupEntry = 1062

// duplicateKey reports whether err is a unique-key violation and, if so,
// returns the driver message naming the offending key.
func duplicateKey(err error) (string, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == erDupEntry {
		return strings.ToLower(me.Message), true
	}
	return "", false
}
