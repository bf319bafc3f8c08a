package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
	assert.Equal(t, "", Encode([]Card{}))
}

func TestEncode_SingleContactNoEmail(t *testing.T) {
	got := Encode([]Card{{Name: "Jane Doe", Phone: "+233501234567"}})

	want := "BEGIN:VCARD\r\n" +
		"VERSION:3.0\r\n" +
		"N:Doe;Jane;;;\r\n" +
		"FN:Jane Doe\r\n" +
		"TEL;TYPE=CELL:+233501234567\r\n" +
		"END:VCARD\r\n"

	assert.Equal(t, want, got)
	assert.NotContains(t, got, "EMAIL")
	assert.Equal(t, 1, strings.Count(got, "BEGIN:VCARD"))
}

func TestEncode_EmailLineOnlyWhenPresent(t *testing.T) {
	got := Encode([]Card{{Name: "Kofi Mensah Annan", Phone: "+233501234567", Email: "kofi@example.com"}})

	assert.Contains(t, got, "N:Mensah Annan;Kofi;;;\r\n")
	assert.Contains(t, got, "EMAIL:kofi@example.com\r\n")
}

func TestEncode_SingleWordNameHasEmptyFamilyName(t *testing.T) {
	got := Encode([]Card{{Name: "Cher", Phone: "+12025550123"}})
	assert.Contains(t, got, "N:;Cher;;;\r\n")
	assert.Contains(t, got, "FN:Cher\r\n")
}

func TestEncode_PreservesInputOrder(t *testing.T) {
	got := Encode([]Card{
		{Name: "B Last", Phone: "+12025550100"},
		{Name: "A First", Phone: "+12025550101"},
	})

	require.Less(t, strings.Index(got, "FN:B Last"), strings.Index(got, "FN:A First"))
	assert.Equal(t, 2, strings.Count(got, "END:VCARD\r\n"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "CIPHER007.vcf", Filename("CIPHER", 7))
	assert.Equal(t, "CIPHER042.vcf", Filename("CIPHER", 42))
	assert.Equal(t, "CIPHER1234.vcf", Filename("CIPHER", 1234))

	// repeated calls with the same sequence number are idempotent
	assert.Equal(t, Filename("CIPHER", 7), Filename("CIPHER", 7))
}
