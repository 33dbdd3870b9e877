package utils

import "regexp"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips everything outside [A-Za-z0-9._-] so uploaded
// names are safe as storage keys and URLs.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "")
}
