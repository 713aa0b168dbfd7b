package erpnext

import (
	"github.com/shopspring/decimal"
)

// dataEnvelope is the standard ERPNext REST response wrapper
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// binRow is one Bin document row from the stock snapshot query
type binRow struct {
	ItemCode     string          `json:"item_code"`
	Warehouse    string          `json:"warehouse"`
	ActualQty    decimal.Decimal `json:"actual_qty"`
	ReservedQty  decimal.Decimal `json:"reserved_qty"`
	ProjectedQty decimal.Decimal `json:"projected_qty"`
}

// warehouseRow is one Warehouse document row from a list query
type warehouseRow struct {
	Name        string `json:"name"`
	DisplayName string `json:"warehouse_name"`
}

// createWarehouseRequest is the POST body for a new Warehouse document.
// ERPNext derives the document name from warehouse_name plus the company
// abbreviation, which is exactly the canonical-name convention.
type createWarehouseRequest struct {
	WarehouseName string `json:"warehouse_name"`
	Company       string `json:"company"`
	WarehouseType string `json:"warehouse_type,omitempty"`
	IsGroup       int    `json:"is_group"`
}

// createWarehouseTypeRequest is the POST body for a Warehouse Type entry
type createWarehouseTypeRequest struct {
	Name string `json:"name"`
}

// createdDoc is the minimal response of a document create
type createdDoc struct {
	Name string `json:"name"`
}

// deliveryNoteRequest is the POST body for a Delivery Note document
type deliveryNoteRequest struct {
	Company       string             `json:"company"`
	Customer      string             `json:"customer"`
	IsReturn      int                `json:"is_return"`
	ReturnAgainst string             `json:"return_against,omitempty"`
	Items         []deliveryNoteItem `json:"items"`
}

// deliveryNoteItem is one row of a Delivery Note
type deliveryNoteItem struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"qty"`
	Warehouse string          `json:"warehouse"`
	// DNDetail links a return row back to the original document row
	DNDetail string `json:"dn_detail,omitempty"`
}
