package dto

// DeliveryLineItem is one requested line item in a build/preview/create request
type DeliveryLineItem struct {
	ItemCode string `json:"item_code" binding:"required"`
	// Qty is validated by the allocation service so the error carries the
	// item code; no binding constraint here
	Qty float64 `json:"qty"`
	// Ownership classifies the stock: OWN, CON or VCON
	Ownership string `json:"ownership" binding:"omitempty,ownership_role"`
	// Owner is the counterparty name, required with CON/VCON ownership
	Owner string `json:"owner"`
	// DisplayWarehouse is the human-readable warehouse name
	DisplayWarehouse string `json:"display_warehouse"`
	// Warehouse is a canonical warehouse name, when already known
	Warehouse string `json:"warehouse"`
	// Group is a pre-resolved set of canonical warehouse names
	Group []string `json:"group"`
	// AgainstLine references the originating document line (returns)
	AgainstLine string `json:"against_line"`
}

// BuildDeliveryLinesRequest asks for the line-item set of a delivery document
type BuildDeliveryLinesRequest struct {
	Company  string             `json:"company" binding:"required"`
	Abbr     string             `json:"abbr" binding:"required"`
	IsReturn bool               `json:"is_return"`
	Items    []DeliveryLineItem `json:"items" binding:"required,min=1,dive"`
}

// PreviewAllocationRequest asks for a dry-run allocation
type PreviewAllocationRequest struct {
	Company string             `json:"company" binding:"required"`
	Abbr    string             `json:"abbr" binding:"required"`
	Items   []DeliveryLineItem `json:"items" binding:"required,min=1,dive"`
}

// CreateDeliveryNoteRequest builds the lines and creates the document in the ERP
type CreateDeliveryNoteRequest struct {
	Company       string             `json:"company" binding:"required"`
	Abbr          string             `json:"abbr" binding:"required"`
	Customer      string             `json:"customer" binding:"required"`
	IsReturn      bool               `json:"is_return"`
	ReturnAgainst string             `json:"return_against"`
	Items         []DeliveryLineItem `json:"items" binding:"required,min=1,dive"`
}

// CreateDeliveryNoteResponse reports the created ERP document
type CreateDeliveryNoteResponse struct {
	Name  string      `json:"name"`
	Lines interface{} `json:"lines"`
}

// EnsureWarehouseRequest provisions a warehouse for an ownership role
type EnsureWarehouseRequest struct {
	Company  string `json:"company" binding:"required"`
	Abbr     string `json:"abbr" binding:"required"`
	BaseCode string `json:"base_code" binding:"required"`
	Role     string `json:"role" binding:"required,ownership_role"`
	Owner    string `json:"owner"`
}
