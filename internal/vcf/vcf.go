// Package vcf encodes collected contacts as a vCard 3.0 document and derives
// the numbered download filename.
package vcf

import (
	"fmt"
	"strings"
)

// Card is the subset of a contact the codec needs. Name is required by the
// registry; Phone and Email lines are emitted only when present.
type Card struct {
	Name  string
	Phone string
	Email string
}

// Encode renders one vCard record per contact, in input order, with CRLF
// line terminators. The empty list encodes to "". Uniqueness and validation
// happened at submission time; the codec never reorders or drops records.
func Encode(contacts []Card) string {
	if len(contacts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, c := range contacts {
		first, last := splitName(c.Name)

		b.WriteString("BEGIN:VCARD\r\n")
		b.WriteString("VERSION:3.0\r\n")
		b.WriteString("N:" + last + ";" + first + ";;;\r\n")
		b.WriteString("FN:" + c.Name + "\r\n")
		if c.Phone != "" {
			b.WriteString("TEL;TYPE=CELL:" + c.Phone + "\r\n")
		}
		if c.Email != "" {
			b.WriteString("EMAIL:" + c.Email + "\r\n")
		}
		b.WriteString("END:VCARD\r\n")
	}

	return b.String()
}

// Filename returns "<base><seq padded to 3 digits>.vcf". The sequence number
// is the session's immutable file sequence, so repeated downloads of the
// same session name the same file.
func Filename(base string, seq int64) string {
	return fmt.Sprintf("%s%03d.vcf", base, seq)
}

// splitName splits on the first space: the first word becomes the given
// name, the remainder (further spaces preserved) the family name.
func splitName(name string) (first, last string) {
	first, last, _ = strings.Cut(name, " ")
	return first, last
}
