package dms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeAccounts_SortedWithTrailingNewline(t *testing.T) {
	data, bad := SerializeAccounts([]AccountRecord{
		{Email: "zoe@example.com", PasswordHash: "{SHA512-CRYPT}z"},
		{Email: "Alice@example.com", PasswordHash: "{SHA512-CRYPT}a"},
		{Email: "bob@example.com", PasswordHash: "{SHA512-CRYPT}b"},
	})
	require.Empty(t, bad)

	want := "alice@example.com|{SHA512-CRYPT}a\n" +
		"bob@example.com|{SHA512-CRYPT}b\n" +
		"zoe@example.com|{SHA512-CRYPT}z\n"
	assert.Equal(t, want, string(data))
}

func TestSerializeAccounts_EmptyIsNil(t *testing.T) {
	data, bad := SerializeAccounts(nil)
	assert.Nil(t, data)
	assert.Empty(t, bad)
}

func TestSerializeAccounts_MalformedExcluded(t *testing.T) {
	data, bad := SerializeAccounts([]AccountRecord{
		{Email: "good@example.com", PasswordHash: "{SHA512-CRYPT}g"},
		{Email: "bad|pipe@example.com", PasswordHash: "{SHA512-CRYPT}b"},
		{Email: "nohash@example.com", PasswordHash: ""},
	})

	assert.Equal(t, "good@example.com|{SHA512-CRYPT}g\n", string(data))
	require.Len(t, bad, 2)
	assert.Equal(t, "bad|pipe@example.com", bad[0].Key)
	assert.Equal(t, "nohash@example.com", bad[1].Key)
}

func TestSerializeQuotas_Format(t *testing.T) {
	data, bad := SerializeQuotas([]QuotaRecord{
		{Email: "user@example.com", SizeValue: 10, Suffix: "G"},
	})
	require.Empty(t, bad)
	assert.Equal(t, "user@example.com:10G\n", string(data))
}

func TestParseAccounts_RoundTrip(t *testing.T) {
	orig := []AccountRecord{
		{Email: "alice@example.com", PasswordHash: "{SHA512-CRYPT}$6$a$aa"},
		{Email: "bob@example.com", PasswordHash: "{SHA512-CRYPT}$6$b$bb"},
	}
	data, bad := SerializeAccounts(orig)
	require.Empty(t, bad)

	recs, errs := ParseAccounts(data)
	require.Empty(t, errs)
	assert.Equal(t, orig, recs)
}

func TestParseAccounts_PartialSuccess(t *testing.T) {
	var lines []string
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		lines = append(lines, u+"@example.com|{SHA512-CRYPT}"+u)
	}
	lines = append(lines, "this line has no delimiter")
	data := []byte(strings.Join(lines, "\n") + "\n")

	recs, errs := ParseAccounts(data)
	assert.Len(t, recs, 10)
	require.Len(t, errs, 1)
	assert.Equal(t, AccountsFile, errs[0].File)
	assert.Equal(t, 11, errs[0].LineNo)
}

func TestParseAccounts_BlankLinesTolerated(t *testing.T) {
	data := []byte("\na@example.com|{SHA512-CRYPT}a\n\n\nb@example.com|{SHA512-CRYPT}b\n\n")
	recs, errs := ParseAccounts(data)
	assert.Empty(t, errs)
	assert.Len(t, recs, 2)
}

func TestParseAccounts_DuplicateKeyKeepsFirst(t *testing.T) {
	data := []byte("a@example.com|{SHA512-CRYPT}first\nA@Example.com|{SHA512-CRYPT}second\n")
	recs, errs := ParseAccounts(data)

	require.Len(t, recs, 1)
	assert.Equal(t, "{SHA512-CRYPT}first", recs[0].PasswordHash)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Reason, "duplicate key a@example.com")
	assert.Contains(t, errs[0].Reason, "first at line 1")
}

func TestParseAliases(t *testing.T) {
	data := []byte("info@example.com admin@example.com\nsales@example.com bob@example.com\n")
	recs, errs := ParseAliases(data)
	require.Empty(t, errs)
	require.Len(t, recs, 2)
	assert.Equal(t, "info@example.com", recs[0].Alias)
	assert.Equal(t, "admin@example.com", recs[0].Destination)
}

func TestParseQuotas(t *testing.T) {
	data := []byte("alice@example.com:10G\nbob@example.com:512M\n")
	recs, errs := ParseQuotas(data)
	require.Empty(t, errs)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(512), recs[1].SizeValue)
	assert.Equal(t, "M", recs[1].Suffix)
}

func TestParseQuotas_TrailingWhitespaceTolerated(t *testing.T) {
	data := []byte("alice@example.com:10G  \r\n")
	recs, errs := ParseQuotas(data)
	assert.Empty(t, errs)
	require.Len(t, recs, 1)
	assert.Equal(t, "alice@example.com:10G", recs[0].Line())
}
