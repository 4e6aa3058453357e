// Package zone converts between typed DNS records and the colon-delimited
// zone text format used by the DMAPI dns-zone-get and dns-zone-put
// operations.
//
// Each record is one line of the form Type:Label[:Priority]:Value[:TTL].
// Parsing is heuristic: the priority position only exists for MX records,
// so a four-segment line for any other type is read as value-plus-TTL when
// the last segment is numeric. A non-MX record with a priority but no TTL
// therefore does not survive a round trip. This matches the server's own
// reading of the format and is kept as-is.
package zone

import (
	"strconv"
	"strings"
)

// RecordType identifies the type of a DNS record.
type RecordType string

const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeTXT   RecordType = "TXT"
	TypeNS    RecordType = "NS"
	TypeSRV   RecordType = "SRV"
	TypeCAA   RecordType = "CAA"
)

// Apex is the label denoting the zone root.
const Apex = "@"

// Record is one zone entry.
type Record struct {
	// Type is the record type. Unknown types pass through untouched.
	Type RecordType
	// Label is the owner name relative to the zone, "@" for the apex.
	Label string
	// Value is the record data (address, target host, text, ...).
	Value string
	// Priority is the MX/SRV preference. Nil when absent.
	Priority *int
	// TTL is the time to live in seconds. Nil when the zone default applies.
	TTL *int
}

// New returns a record with the three required fields set.
func New(t RecordType, label, value string) Record {
	return Record{Type: t, Label: label, Value: value}
}

// NewTXT returns a TXT record for label.
func NewTXT(label, value string) Record {
	return New(TypeTXT, label, value)
}

// WithTTL returns a copy of the record with the TTL set.
func (r Record) WithTTL(seconds int) Record {
	r.TTL = &seconds
	return r
}

// WithPriority returns a copy of the record with the priority set.
func (r Record) WithPriority(p int) Record {
	r.Priority = &p
	return r
}

// Is reports whether the record has the given type and label, compared
// case-insensitively. Zone labels are host names, so "WWW" and "www"
// address the same record.
func (r Record) Is(t RecordType, label string) bool {
	return strings.EqualFold(string(r.Type), string(t)) && strings.EqualFold(r.Label, label)
}

// String renders the record as one zone text line. Priority sits between
// label and value, TTL comes last, and either is omitted when unset.
func (r Record) String() string {
	parts := make([]string, 0, 5)
	parts = append(parts, string(r.Type), r.Label)
	if r.Priority != nil {
		parts = append(parts, strconv.Itoa(*r.Priority))
	}
	parts = append(parts, r.Value)
	if r.TTL != nil {
		parts = append(parts, strconv.Itoa(*r.TTL))
	}
	return strings.Join(parts, ":")
}
