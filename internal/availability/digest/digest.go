// Package digest renders availability into the one-line text injected into the
// assistant's system prompt.
package digest

import (
	"strings"

	"medassist/pkg/model"
)

const Prefix = "Here are the available appointment slots: "

// Format renders
//
//	Here are the available appointment slots: Cardiology: Monday (09:00, 09:30). Radiology: Friday (14:00).
//
// Days without slots are omitted, while a department with no open day still
// appears as "<name>:.". Trailing commas and spaces are trimmed after each
// department and at the end.
func Format(d model.AvailabilityDigest) string {
	var b strings.Builder
	b.WriteString(Prefix)

	for _, dept := range d {
		b.WriteString(dept.Department)
		b.WriteString(": ")
		for _, day := range dept.Days {
			if len(day.Slots) == 0 {
				continue
			}
			b.WriteString(day.Day)
			b.WriteString(" (")
			b.WriteString(strings.Join(day.Slots, ", "))
			b.WriteString("), ")
		}
		s := strings.TrimRight(b.String(), ", ")
		b.Reset()
		b.WriteString(s)
		b.WriteString(". ")
	}

	return strings.TrimRight(b.String(), " \t\r\n")
}
