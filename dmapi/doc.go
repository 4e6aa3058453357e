// Package dmapi is a client for the Joker.com DMAPI, the registrar's
// domain management API. Requests are HTTP GETs with query parameters;
// replies are plain text with an email-style header block, a blank
// line, and a free-text body. Success and failure travel in the reply's
// status-code and ACK/NACK result headers, never in the HTTP status.
//
// A client authenticates with an API key, attached to every request, or
// with username and password, exchanged lazily for a session token on
// the first authenticated call:
//
//	client, err := dmapi.New(dmapi.Config{APIKey: key})
//	if err != nil { ... }
//	defer client.Close()
//
//	resp, err := client.ZoneGet(ctx, "example.com")
//	if err != nil { ... }               // transport or argument error
//	if !resp.IsSuccess() { ... }        // the server declined
//
// A non-nil error means the request never completed (bad arguments, no
// session, transport failure). A completed request always returns the
// parsed Response, which callers inspect with IsSuccess, the typed
// fields, and Header.
package dmapi
