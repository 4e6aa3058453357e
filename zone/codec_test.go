package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{
			name: "three segments",
			line: "A:www:192.168.1.1",
			want: Record{Type: TypeA, Label: "www", Value: "192.168.1.1"},
		},
		{
			name: "trailing integer becomes TTL",
			line: "A:www:192.168.1.1:3600",
			want: Record{Type: TypeA, Label: "www", Value: "192.168.1.1", TTL: intp(3600)},
		},
		{
			name: "MX third segment becomes priority",
			line: "MX:@:10:mail.example.com",
			want: Record{Type: TypeMX, Label: "@", Value: "mail.example.com", Priority: intp(10)},
		},
		{
			name: "MX with priority and TTL",
			line: "MX:@:10:mail.example.com:86400",
			want: Record{Type: TypeMX, Label: "@", Value: "mail.example.com", Priority: intp(10), TTL: intp(86400)},
		},
		{
			name: "MX without numeric priority falls back to the TTL rule",
			line: "MX:@:mail.example.com:3600",
			want: Record{Type: TypeMX, Label: "@", Value: "mail.example.com", TTL: intp(3600)},
		},
		{
			name: "lowercase mx is still MX",
			line: "mx:@:5:mail.example.com",
			want: Record{Type: "mx", Label: "@", Value: "mail.example.com", Priority: intp(5)},
		},
		{
			name: "doubled separators are collapsed",
			line: "A::www::192.168.1.1",
			want: Record{Type: TypeA, Label: "www", Value: "192.168.1.1"},
		},
		{
			name: "non-numeric trailing segment stays the value",
			line: "CNAME:www:ignored:target.example.com",
			want: Record{Type: TypeCNAME, Label: "www", Value: "target.example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Parse(tt.line)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0])
		})
	}
}

func TestParseSkipsUnreadableLines(t *testing.T) {
	text := "# zone for example.com\n" +
		"\n" +
		"A:www:192.168.1.1\n" +
		"A:www\n" +
		"   \n" +
		"TXT:@:hello\n"

	records := Parse(text)

	require.Len(t, records, 2)
	assert.Equal(t, TypeA, records[0].Type)
	assert.Equal(t, TypeTXT, records[1].Type)
}

func TestParseKeepsOrder(t *testing.T) {
	text := "A:www:192.168.1.1\nCNAME:blog:pages.example.net\nTXT:@:hello"

	records := Parse(text)

	require.Len(t, records, 3)
	assert.Equal(t, "www", records[0].Label)
	assert.Equal(t, "blog", records[1].Label)
	assert.Equal(t, "@", records[2].Label)
}

func TestFormat(t *testing.T) {
	records := []Record{
		New(TypeA, "www", "192.168.1.1"),
		New(TypeMX, Apex, "mail.example.com").WithPriority(10),
	}

	assert.Equal(t, "A:www:192.168.1.1\nMX:@:10:mail.example.com", Format(records))
	assert.Equal(t, "", Format(nil))
}

// Round trips hold for non-MX records with an optional TTL and for MX
// records carrying a priority. Other combinations are ambiguous in the
// text format, see the package comment.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{name: "plain A", rec: New(TypeA, "www", "192.168.1.1")},
		{name: "A with TTL", rec: New(TypeA, "www", "192.168.1.1").WithTTL(600)},
		{name: "TXT at apex", rec: NewTXT(Apex, "hello-world")},
		{name: "MX with priority", rec: New(TypeMX, Apex, "mail.example.com").WithPriority(10)},
		{name: "MX with priority and TTL", rec: New(TypeMX, Apex, "mail.example.com").WithPriority(10).WithTTL(3600)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Parse(tt.rec.String())
			require.Len(t, records, 1)
			assert.Equal(t, tt.rec, records[0])
		})
	}
}
