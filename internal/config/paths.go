package config

import (
	"os"
	"path/filepath"
	"strings"
)

// resolvePath expands $VAR references and a leading ~ in p, then anchors a
// relative result at base. An empty base leaves relative paths as they are.
func resolvePath(p, base string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	p = filepath.FromSlash(p)
	if base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
