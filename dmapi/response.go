package dmapi

import (
	"strconv"
	"strings"
)

// resultAck is the server's success marker, compared case-insensitively.
const resultAck = "ACK"

// Response is one parsed DMAPI reply: a block of "Name: Value" header
// lines, a blank line, then free text. The server reports success and
// failure here, not through the HTTP status.
type Response struct {
	// AuthSID is the session token issued by login.
	AuthSID string

	// UID is the account the session belongs to.
	UID string

	// TrackingID identifies the request on the server side.
	TrackingID string

	// StatusCode is the server status, 0 on success. A missing or
	// unreadable status-code header also reads as 0; the protocol
	// does not distinguish the two.
	StatusCode int

	// StatusText is the human-readable companion of StatusCode.
	StatusText string

	// Result is the ACK/NACK marker.
	Result string

	// ProcID identifies a queued request, for result-retrieve.
	ProcID string

	// AccountBalance is the prepaid balance as reported.
	AccountBalance string

	// Errors and Warnings accumulate repeated error:/warning: headers
	// in input order.
	Errors   []string
	Warnings []string

	// Body is the text after the first blank line, nil when the reply
	// ended inside the header block.
	Body *string

	// Headers holds every header verbatim, keyed by lower-cased name.
	// Duplicate names keep the last value; use Errors/Warnings for the
	// accumulated lists.
	Headers map[string]string
}

// IsSuccess reports whether the server acknowledged the operation:
// status code 0 and result ACK. A missing result is never a success.
func (r *Response) IsSuccess() bool {
	return r.StatusCode == 0 && strings.EqualFold(r.Result, resultAck)
}

// Header returns the raw value of a header, matched case-insensitively.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.Headers[strings.ToLower(name)]
	return v, ok
}

// BodyText returns the body, or "" when the reply had none.
func (r *Response) BodyText() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// ParseResponse reads a raw reply. Lines before the first blank line are
// headers; a header line splits on its first colon, and lines without
// one are skipped. Everything after the blank line is the body, kept
// verbatim. CRLF and LF endings are both accepted. ParseResponse never
// fails: unreadable input just leaves fields at their defaults.
func ParseResponse(raw string) *Response {
	resp := &Response{Headers: map[string]string{}}
	lines := strings.Split(raw, "\n")

	bodyStart := -1
	for i, l := range lines {
		line := strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(line) == "" {
			bodyStart = i + 1
			break
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		resp.setHeader(name, strings.TrimSpace(value))
	}

	if bodyStart >= 0 && bodyStart < len(lines) {
		bodyLines := make([]string, 0, len(lines)-bodyStart)
		for _, l := range lines[bodyStart:] {
			bodyLines = append(bodyLines, strings.TrimSuffix(l, "\r"))
		}
		body := strings.Join(bodyLines, "\n")
		resp.Body = &body
	}

	return resp
}

// setHeader records one header line: verbatim into the map, and into
// the matching typed field when the name is well known. A status-code
// that does not parse is ignored, the field stays 0.
func (r *Response) setHeader(name, value string) {
	key := strings.ToLower(name)
	r.Headers[key] = value

	switch key {
	case "auth-sid":
		r.AuthSID = value
	case "uid":
		r.UID = value
	case "tracking-id":
		r.TrackingID = value
	case "status-code":
		if n, err := strconv.Atoi(value); err == nil {
			r.StatusCode = n
		}
	case "status-text":
		r.StatusText = value
	case "result":
		r.Result = value
	case "proc-id":
		r.ProcID = value
	case "account-balance":
		r.AccountBalance = value
	case "error":
		r.Errors = append(r.Errors, value)
	case "warning":
		r.Warnings = append(r.Warnings, value)
	}
}
