package allocation

import (
	"context"
	"fmt"

	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// Candidate is one warehouse eligible to fulfill a requested line item.
type Candidate struct {
	Token       warehouse.Token `json:"token"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name,omitempty"`
}

// CandidateQuery carries whatever the caller knows about the desired
// destination. The resolver tries its fields in order: an explicit
// group, a display name, a single canonical name. It never invents a
// destination; when all fields are empty the candidate list is empty.
type CandidateQuery struct {
	// Group is a pre-resolved candidate set; the fast path when the
	// caller already knows the full fan-out
	Group []Candidate
	// DisplayName is the human-readable, unscoped warehouse name; it can
	// map to several canonical warehouses differing only by role
	DisplayName string
	// WarehouseName is a single canonical name already known to the caller
	WarehouseName string
}

// Resolver produces the ordered candidate set for one line item.
type Resolver struct {
	directory warehouse.Directory
}

// NewResolver creates a Resolver backed by the ERP warehouse directory.
func NewResolver(directory warehouse.Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve returns candidates in discovery order. An empty result is not
// an error here; the allocation engine rejects empty candidate lists so
// the caller can name the unresolved item.
func (r *Resolver) Resolve(ctx context.Context, company string, sc scope.Scope, q CandidateQuery) ([]Candidate, error) {
	if len(q.Group) > 0 {
		candidates := make([]Candidate, len(q.Group))
		copy(candidates, q.Group)
		return candidates, nil
	}

	if q.DisplayName != "" {
		records, err := r.directory.FindByDisplayName(ctx, company, q.DisplayName)
		if err != nil {
			return nil, fmt.Errorf("warehouse lookup %q: %w", q.DisplayName, err)
		}
		candidates := make([]Candidate, 0, len(records))
		for _, record := range records {
			token, ok := warehouse.Parse(record.Name, sc)
			if !ok {
				continue
			}
			// The directory lookup is a prefix match, so it also returns
			// warehouses whose display name merely starts with the
			// requested one ("Depósito Central Norte" for "Depósito
			// Central"). Only role variants share the exact base code;
			// everything else is a different warehouse.
			if token.BaseCode != q.DisplayName {
				continue
			}
			candidates = append(candidates, Candidate{
				Token:       token,
				Name:        record.Name,
				DisplayName: record.DisplayName,
			})
		}
		return candidates, nil
	}

	if q.WarehouseName != "" {
		token, ok := warehouse.Parse(q.WarehouseName, sc)
		if !ok {
			return nil, nil
		}
		return []Candidate{{Token: token, Name: q.WarehouseName}}, nil
	}

	return nil, nil
}
