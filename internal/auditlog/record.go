package auditlog

import "time"

const (
	OutcomeSuccess  = "success"
	OutcomeDeclined = "declined"
	OutcomeError    = "error"
)

// AuditEntry represents a persisted audit event. Mutating joker commands
// record one entry per invocation; TrackingID and ProcID come from the DMAPI
// response headers when the server returned them.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Account    string    `json:"account,omitempty"`
	Domain     string    `json:"domain,omitempty"`
	TrackingID string    `json:"tracking_id,omitempty"`
	ProcID     string    `json:"proc_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
