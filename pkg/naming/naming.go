// Package naming derives filesystem-safe filenames from pin metadata and
// recovers pin IDs from names produced by earlier runs.
//
// The scheme is "<note>_<id><ext>" with the note sanitized and length-limited,
// or "<id><ext>" when the pin has no usable note. Because the ID is always the
// last underscore-separated token of the stem, a directory listing alone is
// enough to tell which pins are already on disk.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// NoteLimit is the display-length cap (in runes) applied to a pin note
	// before it becomes part of a filename.
	NoteLimit = 50

	// maxComponent is the byte budget for one path component. Common
	// filesystems cap components at 255 bytes; one byte is held back as a
	// safety margin.
	maxComponent = 254

	ellipsis = "…"
)

// filenameSafe rewrites characters that are unsafe in filenames on at least
// one supported OS and strips the ones with no reasonable substitute.
var filenameSafe = strings.NewReplacer(
	`\`, "-",
	"/", "-",
	`"`, "'",
	"<", "",
	">", "",
	":", "",
	"|", "",
	"?", "",
	"*", "",
)

// PinFilename builds the on-disk name for a pin image. ext must include the
// leading dot. The note is dropped entirely when it is empty after stripping
// leading periods or when the byte budget leaves no room for it.
func PinFilename(id, note, ext string) string {
	note = strings.TrimLeft(note, ".")
	if note == "" {
		return id + ext
	}
	note = LimitString(note, NoteLimit)
	note = LimitStringBytes(note, maxComponent-1-len(id)-len(ext))
	note = filenameSafe.Replace(note)
	note = strings.TrimRight(note, ". ")
	note = strings.ToLower(note)
	note = strings.Join(strings.Fields(note), "_")
	if note == "" {
		return id + ext
	}
	return note + "_" + id + ext
}

// PinID recovers the pin ID embedded in a filename produced by PinFilename.
// It returns false for names that do not look like pin downloads: the
// candidate ID is the stem's segment after the last underscore, and it must
// be non-empty and alphanumeric.
func PinID(filename string) (string, bool) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	id := stem[strings.LastIndexByte(stem, '_')+1:]
	if !isAlnum(id) {
		return "", false
	}
	return id, true
}

// LimitString caps s at limit runes. When the cap applies, the tail is
// replaced with an ellipsis and whitespace before it is trimmed so the
// marker never floats after a space.
func LimitString(s string, limit int) string {
	if limit < 1 {
		limit = 1
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	head := strings.TrimRightFunc(string(runes[:limit-1]), unicode.IsSpace)
	return head + ellipsis
}

// LimitStringBytes caps s at limit bytes, appending an ellipsis when the cap
// applies. The cut lands on a rune boundary, so the result is always valid
// UTF-8. A budget too small for the ellipsis itself yields an empty string.
func LimitStringBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit < len(ellipsis) {
		return ""
	}
	return truncateBytes(s, limit-len(ellipsis)) + ellipsis
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
