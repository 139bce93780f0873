// Package label derives the display labels for a route's ordered hold
// sequence: START, numbered holds, TOP, and the dual-start/dual-top
// variants where two holds share the starting or finishing position.
package label

import (
	"strconv"
	"strings"
)

// Dual-start/dual-top markers are free-text notes beginning with one of
// these prefixes ("DX" right hand, "SX" left hand). The match is
// case-sensitive.
const (
	dualPrefixRight = "DX"
	dualPrefixLeft  = "SX"
)

// IsDualMarker reports whether a note marks a hold as one half of a
// dual start or dual top.
func IsDualMarker(note string) bool {
	if note == "" {
		return false
	}
	return strings.HasPrefix(note, dualPrefixRight) || strings.HasPrefix(note, dualPrefixLeft)
}

// HoldOrderLabel derives the positional label for the hold at index
// (0-based) in a route of totalHolds holds. A dual marker note absorbs
// the second hold into the start position on routes of at least 3
// holds, and the second-to-last hold into the top position on routes of
// at least 4.
func HoldOrderLabel(index, totalHolds int, note string) string {
	dual := IsDualMarker(note)

	if index == 0 {
		if dual && totalHolds >= 3 {
			return "START " + note
		}
		return "START"
	}

	if index == 1 && totalHolds >= 3 && dual {
		return "START " + note
	}

	if totalHolds > 1 && index == totalHolds-1 {
		if dual && totalHolds >= 4 {
			return "TOP " + note
		}
		return "TOP"
	}

	if totalHolds > 1 && index == totalHolds-2 && dual && totalHolds >= 4 {
		return "TOP " + note
	}

	return strconv.Itoa(index + 1)
}

// HoldLabel derives the full display label: the order label plus the
// note, when the note was not already consumed as a dual marker. Notes
// on numbered holds read "3. crimp"; notes riding on a START/TOP slot
// read "START crimp".
func HoldLabel(index, totalHolds int, note string) string {
	orderLabel := HoldOrderLabel(index, totalHolds, note)
	if note == "" || strings.HasSuffix(orderLabel, " "+note) {
		return orderLabel
	}

	if strings.HasPrefix(orderLabel, "START") || strings.HasPrefix(orderLabel, "TOP") {
		return orderLabel + " " + note
	}

	return orderLabel + ". " + note
}

// CanSetStart reports whether the hold at index may be marked as a dual
// start. Only the first two holds qualify, and only when the route is
// long enough to keep a distinct top.
func CanSetStart(index, totalHolds int) bool {
	return (index == 0 || index == 1) && totalHolds >= 3
}

// CanSetTop reports whether the hold at index may be marked as a dual
// top. Only the last two holds qualify, and only on routes of at least
// 4 holds so the start pair and the top pair cannot overlap.
func CanSetTop(index, totalHolds int) bool {
	return totalHolds >= 4 && (index == totalHolds-1 || index == totalHolds-2)
}
