package allocation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/erpbridge/backend/internal/domain/shared"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// Allocation assigns a portion of a requested quantity to one warehouse.
// Qty is positive for a delivery and negative for a return.
type Allocation struct {
	Warehouse warehouse.Token `json:"warehouse"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
}

// Engine splits a requested quantity across candidate warehouses. It is
// pure: candidates and a stock snapshot in, allocations out, no state
// between calls.
//
// Policy: candidates are depleted in role-priority order (own stock
// before consigned, consigned before vendor-held), stable within a role.
// When total stock falls short, the shortfall lands on the first emitted
// entry; when no candidate has any stock, the whole quantity lands on
// the highest-priority candidate. The engine therefore always allocates
// exactly the requested quantity; negative stock is the ERP's problem
// to enforce or report, not a failure here.
type Engine struct{}

// NewEngine creates an allocation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Allocate runs the greedy pass. bins is the item's snapshot indexed by
// canonical warehouse name; warehouses missing from it count as zero
// stock. The sign flip for returns happens after the greedy pass, which
// always works on the positive magnitude.
func (e *Engine) Allocate(candidates []Candidate, bins map[string]StockBin, requested decimal.Decimal, isReturn bool) ([]Allocation, error) {
	if len(candidates) == 0 {
		return nil, shared.ErrNoEligibleWarehouse
	}
	if !requested.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrInvalidQuantity.Code,
			fmt.Sprintf("requested quantity %s must be positive", requested))
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Token.Role.Priority() < ordered[j].Token.Role.Priority()
	})

	remaining := requested
	allocations := make([]Allocation, 0, len(ordered))
	for _, candidate := range ordered {
		if !remaining.IsPositive() {
			break
		}
		available := bins[candidate.Name].ActualQty
		if available.IsNegative() {
			available = decimal.Zero
		}
		take := decimal.Min(remaining, available)
		if !take.IsPositive() {
			continue
		}
		allocations = append(allocations, Allocation{
			Warehouse: candidate.Token,
			Name:      candidate.Name,
			Qty:       take,
		})
		remaining = remaining.Sub(take)
	}

	// Overflow: live stock was insufficient. The request is still
	// honored in full; the shortfall goes to the first emitted entry, or
	// the whole quantity to the first candidate when nothing was emitted.
	if remaining.IsPositive() {
		if len(allocations) > 0 {
			allocations[0].Qty = allocations[0].Qty.Add(remaining)
		} else {
			first := ordered[0]
			allocations = append(allocations, Allocation{
				Warehouse: first.Token,
				Name:      first.Name,
				Qty:       requested,
			})
		}
	}

	if isReturn {
		for i := range allocations {
			allocations[i].Qty = allocations[i].Qty.Neg()
		}
	}

	return allocations, nil
}
