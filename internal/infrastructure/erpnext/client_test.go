package erpnext

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpbridge/backend/internal/application/delivery"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "key",
		APISecret:      "secret",
		TimeoutSeconds: 5,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("rejects incomplete config", func(t *testing.T) {
		_, err := NewClient(&Config{BaseURL: "https://erp.example.com"}, nil)
		assert.ErrorContains(t, err, "API key")
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("batches all items into one Bin query", func(t *testing.T) {
		var gotPath, gotFilters, gotAuth string
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotFilters = r.URL.Query().Get("filters")
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"item_code": "TOR-8MM - NS", "warehouse": "Depósito Central - NS", "actual_qty": 4.5},
				{"item_code": "TOR-8MM - NS", "warehouse": "Depósito Central (CON: ACME) - NS", "actual_qty": 3},
				{"item_code": "TUE-8MM - NS", "warehouse": "Depósito Central - NS", "actual_qty": 10},
			}})
		})

		snapshot, err := client.Fetch(ctx, "Norte Sur SA", []string{"TOR-8MM - NS", "TUE-8MM - NS"})
		require.NoError(t, err)

		assert.Equal(t, "/api/resource/Bin", gotPath)
		assert.Contains(t, gotFilters, `"item_code"`)
		assert.Contains(t, gotFilters, "TUE-8MM - NS")
		assert.Equal(t, "token key:secret", gotAuth)

		require.Len(t, snapshot["TOR-8MM - NS"], 2)
		assert.True(t, snapshot["TOR-8MM - NS"][0].ActualQty.Equal(decimal.RequireFromString("4.5")))
		require.Len(t, snapshot["TUE-8MM - NS"], 1)
	})

	t.Run("no items means no request", func(t *testing.T) {
		client := testClient(t, func(http.ResponseWriter, *http.Request) {
			t.Fatal("unexpected request")
		})
		snapshot, err := client.Fetch(ctx, "Norte Sur SA", nil)
		require.NoError(t, err)
		assert.Empty(t, snapshot)
	})
}

func TestExists(t *testing.T) {
	ctx := context.Background()

	t.Run("200 means the warehouse exists", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/resource/Warehouse/Depósito Central - NS", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "Depósito Central - NS"}})
		})
		exists, err := client.Exists(ctx, "Norte Sur SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("404 means it does not", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		exists, err := client.Exists(ctx, "Norte Sur SA", "Depósito Central - NS")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other statuses are errors", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.Exists(ctx, "Norte Sur SA", "Depósito Central - NS")
		assert.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	t.Run("posts the unscoped warehouse name", func(t *testing.T) {
		var got createWarehouseRequest
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "created"}})
		})

		err := client.Create(context.Background(), "Norte Sur SA",
			"Depósito Central (CON: ACME) - NS", warehouse.RoleConsigned)
		require.NoError(t, err)
		assert.Equal(t, "Depósito Central (CON: ACME)", got.WarehouseName)
		assert.Equal(t, "Norte Sur SA", got.Company)
		assert.Equal(t, "CON", got.WarehouseType)
	})
}

func TestFindByDisplayName(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Warehouse", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("filters"), "Norte Sur SA")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"name": "Depósito Central - NS", "warehouse_name": "Depósito Central"},
			{"name": "Depósito Central (CON: ACME) - NS", "warehouse_name": "Depósito Central (CON: ACME)"},
		}})
	})

	records, err := client.FindByDisplayName(context.Background(), "Norte Sur SA", "Depósito Central")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Depósito Central - NS", records[0].Name)
}

func TestEnsureRoleType(t *testing.T) {
	t.Run("conflict on an existing type is not an error", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		assert.NoError(t, client.EnsureRoleType(context.Background(), warehouse.RoleConsigned))
	})
}

func TestCreateDeliveryNote(t *testing.T) {
	var got deliveryNoteRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Delivery Note", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "REM-00042"}})
	})

	name, err := client.CreateDeliveryNote(context.Background(), delivery.Note{
		Company:       "Norte Sur SA",
		Customer:      "ACME - NS",
		IsReturn:      true,
		ReturnAgainst: "REM-00017",
		Lines: []delivery.Line{
			{ItemCode: "TOR-8MM - NS", Qty: decimal.NewFromInt(-5), Warehouse: "Depósito Central - NS", AgainstLine: "REM-00017:1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "REM-00042", name)
	assert.Equal(t, 1, got.IsReturn)
	assert.Equal(t, "REM-00017", got.ReturnAgainst)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "REM-00017:1", got.Items[0].DNDetail)
	assert.True(t, got.Items[0].Qty.Equal(decimal.NewFromInt(-5)))
}
