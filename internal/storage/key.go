package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var scriptKeyComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// ScriptKey validates a slash-separated script key such as
// "chinook/chinook.sql" and returns it cleaned.
func ScriptKey(key string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(strings.TrimSpace(key), "/"))
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("script key is required")
	}
	if !strings.HasSuffix(cleaned, ".sql") {
		return "", fmt.Errorf("invalid script key %q: must end in .sql", key)
	}
	for _, component := range strings.Split(cleaned, "/") {
		if !scriptKeyComponentPattern.MatchString(component) {
			return "", fmt.Errorf("invalid script key component %q in %q", component, key)
		}
	}
	return cleaned, nil
}
