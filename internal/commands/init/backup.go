package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ConfigExists reports whether a config file is present at path.
func ConfigExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// BackupConfig copies path to path.bak, keeping its permissions. The
// returned path is empty when there was nothing to copy.
func BackupConfig(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}

	backup := path + ".bak"
	if err := os.WriteFile(backup, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}
