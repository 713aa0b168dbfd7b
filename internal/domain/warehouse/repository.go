package warehouse

import "context"

// Record is one warehouse document as returned by the ERP lookup.
type Record struct {
	// Name is the canonical (scoped) document name
	Name string `json:"name"`
	// DisplayName is the human-readable warehouse_name field
	DisplayName string `json:"warehouse_name"`
}

// Directory is the ERP-side view of warehouse documents. Implementations
// live in the infrastructure layer; the domain only depends on this port.
type Directory interface {
	// Exists reports whether a warehouse document with the canonical name exists
	Exists(ctx context.Context, company, canonicalName string) (bool, error)
	// Create creates a warehouse document with the canonical name and role type
	Create(ctx context.Context, company, canonicalName string, role Role) error
	// FindByDisplayName returns all warehouses of the company whose
	// display name matches; several canonical names can share one
	// display name and differ only by ownership role
	FindByDisplayName(ctx context.Context, company, displayName string) ([]Record, error)
	// EnsureRoleType creates the warehouse-type taxonomy entry for the
	// role if the ERP does not have it yet
	EnsureRoleType(ctx context.Context, role Role) error
}

// ExistenceCache remembers canonical names already confirmed to exist in
// the ERP, so repeated Ensure calls skip the existence round trip. Only
// positive existence is ever cached; absence is always re-checked.
type ExistenceCache interface {
	Contains(ctx context.Context, company, canonicalName string) (bool, error)
	Add(ctx context.Context, company, canonicalName string) error
}
