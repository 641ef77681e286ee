package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength        = 25
	maxTitleLength       = 280
	maxDescriptionLength = 10000
)

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// fieldErrors collects every violation of a request before any of them is
// reported, keyed by field name.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, taken := f[field]; !taken {
		f[field] = msg
	}
}

// err returns nil when nothing was collected.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return InvalidInputError{Fields: f}
}

func checkName(what, value string) (string, bool) {
	if value == "" {
		return what + " should contain at least 1 character", false
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return fmt.Sprintf("%s should contain at most %d characters", what, maxNameLength), false
	}
	if !lettersAndSpaces.MatchString(value) {
		return what + " can only contain letters and spaces", false
	}
	return "", true
}

func checkTitle(value string) (string, bool) {
	if value == "" {
		return "title should contain at least 1 character", false
	}
	if utf8.RuneCountInString(value) > maxTitleLength {
		return fmt.Sprintf("title should contain at most %d characters", maxTitleLength), false
	}
	return "", true
}

func checkDescription(value string) (string, bool) {
	if utf8.RuneCountInString(value) > maxDescriptionLength {
		return fmt.Sprintf("description should contain at most %d characters", maxDescriptionLength), false
	}
	return "", true
}

// duplicateIndices returns the index of every member of every duplicate group
// in values, so a violation can be reported against each occurrence rather
// than only the later ones.
func duplicateIndices(values []string) []int {
	seen := make(map[string][]int, len(values))
	for i, v := range values {
		seen[v] = append(seen[v], i)
	}
	var out []int
	for i, v := range values {
		if len(seen[v]) > 1 {
			out = append(out, i)
		}
	}
	return out
}

func columnField(index int) string {
	return fmt.Sprintf("columns[%d]", index)
}

func subtaskField(index int) string {
	return fmt.Sprintf("subtasks[%d]", index)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
