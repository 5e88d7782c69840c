package uploads

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windows reserved device names, refused as file names on any platform
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces name to a flat, ASCII-only file name that is safe to join with the upload dir.
// Returns an empty string if nothing usable is left.
func SecureFilename(name string) string {
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), name)
	if err != nil {
		ascii = name
	}
	ascii = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, ascii)

	for _, sep := range []string{"/", "\\", string(filepath.Separator)} {
		ascii = strings.ReplaceAll(ascii, sep, " ")
	}
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if base, _, _ := strings.Cut(ascii, "."); reservedNames[strings.ToUpper(base)] {
		ascii = "_" + ascii
	}
	return ascii
}

// Ext returns the lowercased extension of name without the dot
func Ext(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
