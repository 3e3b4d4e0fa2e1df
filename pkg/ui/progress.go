package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pindl/pkg/naming"
)

// progressWidth is the column budget one progress line must fit in.
const progressWidth = 79

// FormatProgress renders the line printed after each successful download:
// downloads finished this run out of the board total, the pin's position on
// the board, a note snippet and the pin ID. The snippet gets whatever width
// the fixed parts leave over; the ID is never cut.
func FormatProgress(current, total, pinNumber int, note, id string) string {
	prefix := fmt.Sprintf("%d/%d %d", current, total, pinNumber)

	note = strings.Join(strings.Fields(note), " ")
	if note == "" {
		return prefix + " " + id
	}

	budget := progressWidth - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(id) - 2
	if budget < 1 {
		return prefix + " " + id
	}

	return prefix + " " + naming.LimitString(note, budget) + " " + id
}

// BoardHeader renders the block announcing a board before its download
// starts:
//
//	<name>
//	by <creator>
//	<N> pins
//
// surrounded by blank lines.
func BoardHeader(name, creator string, pins int) string {
	return fmt.Sprintf("\n%s\nby %s\n%d pins\n\n", name, creator, pins)
}
