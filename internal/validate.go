package internal

import (
	"fmt"
	"strings"
)

// ValidateFile checks an upload against the size and media type limits and
// returns every violation found, not just the first. An empty slice means the
// upload is valid. Callers join the messages with ", " when reporting.
func ValidateFile(file Upload, maxSize int64) []string {
	var violations []string

	if size := int64(len(file.Data)); size > maxSize {
		violations = append(violations, fmt.Sprintf(
			"File size (%.2fMB) exceeds %dMB limit",
			float64(size)/(1<<20), maxSize>>20))
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		violations = append(violations, "File must be an image")
	}

	return violations
}
