package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/colonyops/tick/internal/data/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// corruptMessages match drivers that report corruption without a typed code.
var corruptMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

// IsBusyError reports whether err is SQLITE_BUSY.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	for _, m := range corruptMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err means a missing row or key.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || kv.IsNotFound(err)
}

// RecoverFromCorruption moves the database in dataDir, with its WAL and SHM
// sidecars, to a timestamped .corrupt name so the next open starts fresh.
// A sidecar that cannot be moved is removed.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		err := os.Rename(src, backup+suffix)
		switch {
		case err == nil, errors.Is(err, fs.ErrNotExist):
			continue
		case suffix == "":
			return fmt.Errorf("move corrupt database: %w", err)
		}

		if rmErr := os.Remove(src); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", filepath.Base(src), errors.Join(err, rmErr))
		}
	}
	return nil
}
