package vault

import (
	"errors"
	"strings"
)

// CommentPrefix marks every line of a fallback document.
const CommentPrefix = "# "

// Commented prefixes every line of text with CommentPrefix.
func Commented(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = CommentPrefix + line
	}
	return strings.Join(lines, "\n")
}

// RenderError turns err into a commented document that can be shown in
// place of plaintext.
func RenderError(err error) string {
	var vErr *Error
	if errors.As(err, &vErr) && vErr.Detail != "" {
		return Commented("ERROR: " + vErr.Message + "\n\n" + vErr.Detail)
	}
	return Commented("ERROR: " + err.Error())
}
