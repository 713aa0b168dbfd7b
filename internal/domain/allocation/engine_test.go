package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/shared"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

var engineScope = scope.Scope{CompanyName: "Norte Sur SA", Abbr: "NS"}

func candidate(base string, role warehouse.Role, owner string) Candidate {
	token := warehouse.Token{BaseCode: base, Role: role, Owner: owner, Scope: engineScope}
	return Candidate{Token: token, Name: token.CanonicalName()}
}

func bin(c Candidate, actual int64) StockBin {
	return StockBin{Warehouse: c.Name, ActualQty: decimal.NewFromInt(actual)}
}

func binsFor(bins ...StockBin) map[string]StockBin {
	m := make(map[string]StockBin, len(bins))
	for _, b := range bins {
		m[b.Warehouse] = b
	}
	return m
}

func totalAbs(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Qty.Abs())
	}
	return total
}

func TestEngineAllocate(t *testing.T) {
	engine := NewEngine()
	own := candidate("Depósito Central", warehouse.RoleOwn, "")
	con := candidate("Depósito Central", warehouse.RoleConsigned, "ACME")
	vcon := candidate("Depósito Central", warehouse.RoleVendorConsigned, "ACME")

	t.Run("sufficient own stock yields a single entry", func(t *testing.T) {
		allocations, err := engine.Allocate(
			[]Candidate{vcon, con, own},
			binsFor(bin(own, 50), bin(con, 50), bin(vcon, 50)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, warehouse.RoleOwn, allocations[0].Warehouse.Role)
		assert.True(t, allocations[0].Qty.Equal(decimal.NewFromInt(10)))
	})

	t.Run("splits across roles in priority order", func(t *testing.T) {
		// requested 10, OWN has 4, CON has 3: CON absorbs the shortfall
		// because it is the next candidate in priority order
		allocations, err := engine.Allocate(
			[]Candidate{own, con},
			binsFor(bin(own, 4), bin(con, 3)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, warehouse.RoleOwn, allocations[0].Warehouse.Role)
		assert.True(t, allocations[0].Qty.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, warehouse.RoleConsigned, allocations[1].Warehouse.Role)
		assert.True(t, allocations[1].Qty.Equal(decimal.NewFromInt(6)))
	})

	t.Run("all-zero stock lands everything on the first candidate", func(t *testing.T) {
		allocations, err := engine.Allocate(
			[]Candidate{con, own},
			binsFor(bin(own, 0), bin(con, 0)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, warehouse.RoleOwn, allocations[0].Warehouse.Role)
		assert.True(t, allocations[0].Qty.Equal(decimal.NewFromInt(10)))
	})

	t.Run("shortfall is added to the first emitted entry", func(t *testing.T) {
		allocations, err := engine.Allocate(
			[]Candidate{own, con, vcon},
			binsFor(bin(own, 2), bin(con, 3), bin(vcon, 1)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 3)
		// 2+3+1 = 6 on hand; the missing 4 lands on the OWN entry
		assert.True(t, allocations[0].Qty.Equal(decimal.NewFromInt(6)))
		assert.True(t, allocations[1].Qty.Equal(decimal.NewFromInt(3)))
		assert.True(t, allocations[2].Qty.Equal(decimal.NewFromInt(1)))
	})

	t.Run("missing bins count as zero stock", func(t *testing.T) {
		allocations, err := engine.Allocate(
			[]Candidate{own, con},
			binsFor(bin(con, 10)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, warehouse.RoleConsigned, allocations[0].Warehouse.Role)
	})

	t.Run("negative on-hand stock is treated as empty", func(t *testing.T) {
		allocations, err := engine.Allocate(
			[]Candidate{own, con},
			binsFor(bin(own, -5), bin(con, 10)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, warehouse.RoleConsigned, allocations[0].Warehouse.Role)
	})

	t.Run("ties within a role keep discovery order", func(t *testing.T) {
		conB := candidate("Sucursal Oeste", warehouse.RoleConsigned, "BETA")
		allocations, err := engine.Allocate(
			[]Candidate{conB, con},
			binsFor(bin(conB, 5), bin(con, 5)),
			decimal.NewFromInt(8), false)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, conB.Name, allocations[0].Name)
		assert.Equal(t, con.Name, allocations[1].Name)
	})

	t.Run("return flips every sign after the greedy pass", func(t *testing.T) {
		forward, err := engine.Allocate(
			[]Candidate{own, con},
			binsFor(bin(own, 4), bin(con, 3)),
			decimal.NewFromInt(10), false)
		require.NoError(t, err)
		reverse, err := engine.Allocate(
			[]Candidate{own, con},
			binsFor(bin(own, 4), bin(con, 3)),
			decimal.NewFromInt(10), true)
		require.NoError(t, err)
		require.Len(t, reverse, len(forward))
		for i := range forward {
			assert.True(t, reverse[i].Qty.Equal(forward[i].Qty.Neg()))
			assert.Equal(t, forward[i].Name, reverse[i].Name)
		}
	})

	t.Run("allocated total always equals the requested quantity", func(t *testing.T) {
		requested := decimal.RequireFromString("7.25")
		cases := []map[string]StockBin{
			binsFor(bin(own, 50)),
			binsFor(bin(own, 4), bin(con, 3)),
			binsFor(bin(own, 0), bin(con, 0), bin(vcon, 0)),
			binsFor(),
		}
		for _, bins := range cases {
			allocations, err := engine.Allocate([]Candidate{own, con, vcon}, bins, requested, false)
			require.NoError(t, err)
			assert.True(t, totalAbs(allocations).Equal(requested))
		}
	})

	t.Run("empty candidate list is an error", func(t *testing.T) {
		_, err := engine.Allocate(nil, binsFor(), decimal.NewFromInt(5), false)
		assert.ErrorIs(t, err, shared.ErrNoEligibleWarehouse)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		_, err := engine.Allocate([]Candidate{own}, binsFor(), decimal.Zero, false)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidQuantity.Code, domainErr.Code)
	})
}
