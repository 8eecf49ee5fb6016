package subprocess

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wagiedev/uci-engine-go/internal/errors"
)

// commonDirs are searched when a bare engine name is not on PATH.
// Debian and Ubuntu install stockfish under /usr/games.
var commonDirs = []string{
	"/usr/games",
	"/usr/local/bin",
	"/opt/homebrew/bin",
	"/usr/bin",
}

// Locate resolves the engine executable.
//
// A path containing a separator is used as given and only checked for
// existence. A bare name is searched in PATH and then in a few common
// installation directories. Returns *errors.SpawnError naming the searched
// locations when nothing is found.
func Locate(log *slog.Logger, name string) (string, error) {
	if name == "" {
		return "", &errors.SpawnError{Path: name, Err: exec.ErrNotFound}
	}

	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		if _, err := os.Stat(name); err != nil {
			return "", &errors.SpawnError{Path: name, Err: err}
		}

		return name, nil
	}

	if path, err := exec.LookPath(name); err == nil {
		log.Debug("Found engine in PATH", "path", path)

		return path, nil
	}

	searched := []string{"$PATH"}

	for _, dir := range commonDirs {
		path := filepath.Join(dir, name)
		searched = append(searched, path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			log.Debug("Found engine at common path", "path", path)

			return path, nil
		}
	}

	log.Warn("Engine not found in any searched paths", "name", name, "searched_paths", searched)

	return "", &errors.SpawnError{
		Path: name,
		Err:  &exec.Error{Name: strings.Join(searched, ", "), Err: exec.ErrNotFound},
	}
}

// buildEnvironment returns the parent environment extended with extra.
func buildEnvironment(extra map[string]string) []string {
	env := os.Environ()

	for key, value := range extra {
		env = append(env, key+"="+value)
	}

	return env
}
