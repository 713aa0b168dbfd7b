package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erpbridge/backend/internal/domain/allocation"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// LineRequest is one requested line item of a delivery document.
type LineRequest struct {
	// ItemCode is the unscoped item code as entered in the UI
	ItemCode string
	// Qty is the requested quantity; always positive, also for returns
	Qty decimal.Decimal
	// Ownership optionally classifies the stock to deliver from; together
	// with Owner and a base warehouse it provisions the role-variant
	// warehouse on demand when the resolver finds no candidates
	Ownership warehouse.Role
	// Owner is the free-text counterparty name for CON/VCON ownership
	Owner string
	// Group is a pre-resolved candidate set (fast path)
	Group []allocation.Candidate
	// DisplayWarehouse is the human-readable warehouse name the user picked
	DisplayWarehouse string
	// WarehouseName is a single canonical warehouse name, when known
	WarehouseName string
	// AgainstLine references the originating document line; mandatory for returns
	AgainstLine string
}

// Line is one concrete delivery line, ready for the ERP document body.
type Line struct {
	ItemCode       string          `json:"item_code"`
	Qty            decimal.Decimal `json:"qty"`
	Warehouse      string          `json:"warehouse"`
	OwnershipLabel string          `json:"ownership_label"`
	AgainstLine    string          `json:"against_line,omitempty"`
}

// BuildResult is the outcome of one delivery-lines build.
type BuildResult struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	Lines         []Line    `json:"lines"`
}

// ItemPreview reports what allocating one item would do, without any
// provisioning or document side effects.
type ItemPreview struct {
	ItemCode       string                  `json:"item_code"`
	RequestedQty   decimal.Decimal         `json:"requested_qty"`
	TotalAvailable decimal.Decimal         `json:"total_available"`
	CanFulfill     bool                    `json:"can_fulfill"`
	ShortageQty    decimal.Decimal         `json:"shortage_qty"`
	Allocations    []allocation.Allocation `json:"allocations"`
}

// PreviewResult is the outcome of a dry-run allocation across a document.
type PreviewResult struct {
	CorrelationID uuid.UUID     `json:"correlation_id"`
	Items         []ItemPreview `json:"items"`
	CanFulfillAll bool          `json:"can_fulfill_all"`
}

// Note is a delivery document to be created in the ERP.
type Note struct {
	Company       string `json:"company"`
	Customer      string `json:"customer"`
	IsReturn      bool   `json:"is_return"`
	ReturnAgainst string `json:"return_against,omitempty"`
	Lines         []Line `json:"lines"`
}

// NoteCreator posts the assembled delivery document to the ERP and
// returns the created document name.
type NoteCreator interface {
	CreateDeliveryNote(ctx context.Context, note Note) (string, error)
}
