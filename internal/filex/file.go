package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only permissions and returns
// its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// HomeSubdir returns <home>/<name>, falling back to the working directory
// when the home directory cannot be resolved.
func HomeSubdir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		cwd, cerr := os.Getwd()
		if cerr != nil {
			return name
		}
		return filepath.Join(cwd, name)
	}
	return filepath.Join(home, name)
}
