package tagset

import "strings"

// Append trims the raw value and appends it to the sequence unless it is
// empty or already present. Comparison is case-sensitive; insertion order is
// preserved.
func Append(seq []string, raw string) []string {
	tag := strings.TrimSpace(raw)
	if len(tag) == 0 {
		return seq
	}
	for _, existing := range seq {
		if existing == tag {
			return seq
		}
	}
	return append(seq, tag)
}

// Remove deletes the value from the sequence, keeping order.
func Remove(seq []string, tag string) []string {
	out := seq[:0]
	for _, existing := range seq {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}
