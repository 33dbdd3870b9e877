package utils

import "regexp"

var nimPattern = regexp.MustCompile(`^\d{9}$`)

// ValidateNIM reports whether nim is a well-formed student identifier:
// exactly 9 digits, the first 4 being the study program code.
func ValidateNIM(nim string) bool {
	return nimPattern.MatchString(nim)
}

// DeriveEmail maps a NIM to the synthetic campus mailbox the login code is
// sent to.
func DeriveEmail(nim, domain string) string {
	return nim + "@student." + domain
}

// ProgramCode extracts the 4-digit study program prefix. Callers must have
// validated the NIM first.
func ProgramCode(nim string) string {
	if len(nim) < 4 {
		return ""
	}
	return nim[:4]
}
