package rdw

import "regexp"

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// platePatterns are the Dutch sidecode formats, matched against the
// normalized (dash-free) form.
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{2}$`), // XX-99-XX
	regexp.MustCompile(`^[0-9]{2}[A-Z]{3}[0-9]$`),    // 99-XXX-9
	regexp.MustCompile(`^[0-9]{2}[A-Z]{2}[0-9]{2}$`), // 99-XX-99
	regexp.MustCompile(`^[A-Z]{2}[0-9]{3}[A-Z]$`),    // XX-999-X
	regexp.MustCompile(`^[A-Z]{3}[0-9]{2}[A-Z]$`),    // XXX-99-X
	regexp.MustCompile(`^[0-9][A-Z]{3}[0-9]{2}$`),    // 9-XXX-99
	regexp.MustCompile(`^[A-Z][0-9]{3}[A-Z]{2}$`),    // X-999-XX
	regexp.MustCompile(`^[0-9]{2}[0-9]{2}[A-Z]{2}$`), // 99-99-XX (oldest sidecodes)
	regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[0-9]{2}$`), // XX-99-99
}

// NormalizePlate uppercases and strips everything that is not a letter or
// digit, which is the form the RDW API expects.
func NormalizePlate(plate string) string {
	up := make([]byte, 0, len(plate))
	for i := 0; i < len(plate); i++ {
		ch := plate[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		up = append(up, ch)
	}
	return nonAlphanumeric.ReplaceAllString(string(up), "")
}

// FormatPlate renders a normalized 6-character plate with dashes (XX-XX-XX).
// Other lengths are returned normalized but unformatted.
func FormatPlate(plate string) string {
	n := NormalizePlate(plate)
	if len(n) != 6 {
		return n
	}
	return n[0:2] + "-" + n[2:4] + "-" + n[4:6]
}

// ValidPlate reports whether the input matches a known Dutch sidecode.
func ValidPlate(plate string) bool {
	n := NormalizePlate(plate)
	if len(n) != 6 {
		return false
	}
	for _, p := range platePatterns {
		if p.MatchString(n) {
			return true
		}
	}
	return false
}
