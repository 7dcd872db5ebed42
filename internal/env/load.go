package env

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the given file (e.g. ".env") and sets an environment variable for each
// KEY=VALUE line. Variables already set in the process environment win over the file.
// The file may be missing; that is not an error.
func Load(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// First returns the value of the first non-empty variable among keys.
func First(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
