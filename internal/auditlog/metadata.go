package auditlog

import "context"

// Metadata carries audit context a command accumulates while running: the
// account it authenticated as, the domain it touched, and the request
// identifiers DMAPI returned. Later writes win field by field.
type Metadata struct {
	Account    string
	Domain     string
	TrackingID string
	ProcID     string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Account:    pick(meta.Account, existing.Account),
		Domain:     pick(meta.Domain, existing.Domain),
		TrackingID: pick(meta.TrackingID, existing.TrackingID),
		ProcID:     pick(meta.ProcID, existing.ProcID),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
