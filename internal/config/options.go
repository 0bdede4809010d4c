// Package config loads application configuration files and normalizes
// list-valued options.
package config

import (
	"strings"

	"projscan/internal/utils"
)

// ParseListOption splits a comma- or newline-separated option value into a
// deduplicated slice, trimming whitespace and dropping empty parts. An empty
// input yields nil.
func ParseListOption(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	normalizedValue := strings.ReplaceAll(value, ",", "\n")
	var parts []string
	for _, line := range strings.Split(normalizedValue, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}
		parts = append(parts, trimmedLine)
	}
	return utils.DeduplicateNames(parts)
}
