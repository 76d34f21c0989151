package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${env://NAME} and ${env://NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// splitDefault separates "NAME:-default" into its parts. The default may
// itself contain colons.
func splitDefault(ref string) (name, fallback string, hasDefault bool) {
	name, fallback, hasDefault = strings.Cut(ref, ":-")
	return name, fallback, hasDefault
}

// EnvSubstituter expands ${env://NAME} references in raw config content
// before it is handed to viper.
type EnvSubstituter struct {
	// Lookup resolves a variable. Nil uses os.LookupEnv.
	Lookup func(name string) (string, bool)
}

// Substitute replaces every reference in content outside full-line YAML
// comments. A variable that is unset
// or empty takes its default; a reference without a default whose variable
// is unset is an error. All missing variables are reported together.
func (e *EnvSubstituter) Substitute(content string) (string, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var missing []string
	expand := func(match string) string {
		ref := strings.TrimSuffix(strings.TrimPrefix(match, "${env://"), "}")
		name, fallback, hasDefault := splitDefault(ref)

		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		if hasDefault {
			return fallback
		}
		missing = append(missing, name)
		return match
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if isComment(line) {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, expand)
	}
	result := strings.Join(lines, "\n")

	if len(missing) > 0 {
		return "", fmt.Errorf("environment variable substitution failed: required variables not set: %s",
			strings.Join(missing, ", "))
	}
	return result, nil
}

// HasEnvVars reports whether content contains any ${env://...} reference.
func HasEnvVars(content string) bool {
	return envVarPattern.MatchString(content)
}

// isComment reports whether line is a full-line YAML comment.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
