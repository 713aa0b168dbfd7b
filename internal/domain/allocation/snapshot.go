package allocation

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockBin is the per-(item, warehouse) stock row as reported by the
// ERP. It is read-only to this subsystem and refreshed on every
// allocation request, never cached across requests.
type StockBin struct {
	Warehouse    string          `json:"warehouse"`
	ActualQty    decimal.Decimal `json:"actual_qty"`
	ReservedQty  decimal.Decimal `json:"reserved_qty"`
	ProjectedQty decimal.Decimal `json:"projected_qty"`
}

// SnapshotProvider fetches current stock levels from the ERP. The fetch
// is batched: one call covers every scoped item code of a document.
type SnapshotProvider interface {
	Fetch(ctx context.Context, company string, scopedItemCodes []string) (map[string][]StockBin, error)
}

// BinsByWarehouse indexes one item's snapshot rows by canonical
// warehouse name for the engine's availability lookups.
func BinsByWarehouse(rows []StockBin) map[string]StockBin {
	bins := make(map[string]StockBin, len(rows))
	for _, row := range rows {
		bins[row.Warehouse] = row
	}
	return bins
}
