package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/application/delivery"
	"github.com/erpbridge/backend/internal/domain/allocation"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// maxResponseSize is the maximum allowed response size from the ERP (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the REST adapter for an ERPNext site. It implements the
// domain ports warehouse.Directory, allocation.SnapshotProvider and
// delivery.NoteCreator; all persistence and conflict resolution is the
// ERP's, this client only translates calls.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the configured ERPNext site
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// statusError is a non-2xx response from the ERP
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("erpnext: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Fetch returns the per-warehouse stock rows for every requested item
// in one batched Bin query, keyed by scoped item code. Items without
// any bin rows are simply absent from the map.
func (c *Client) Fetch(ctx context.Context, company string, scopedItemCodes []string) (map[string][]allocation.StockBin, error) {
	if len(scopedItemCodes) == 0 {
		return map[string][]allocation.StockBin{}, nil
	}

	filters, err := json.Marshal([][]any{{"item_code", "in", scopedItemCodes}})
	if err != nil {
		return nil, fmt.Errorf("erpnext: encode bin filters: %w", err)
	}
	query := url.Values{
		"filters":           {string(filters)},
		"fields":            {`["item_code","warehouse","actual_qty","reserved_qty","projected_qty"]`},
		"limit_page_length": {"0"},
	}

	var rows dataEnvelope[[]binRow]
	if err := c.get(ctx, "/api/resource/Bin", query, &rows); err != nil {
		return nil, fmt.Errorf("erpnext: fetch bins: %w", err)
	}

	snapshot := make(map[string][]allocation.StockBin, len(scopedItemCodes))
	for _, row := range rows.Data {
		snapshot[row.ItemCode] = append(snapshot[row.ItemCode], allocation.StockBin{
			Warehouse:    row.Warehouse,
			ActualQty:    row.ActualQty,
			ReservedQty:  row.ReservedQty,
			ProjectedQty: row.ProjectedQty,
		})
	}
	c.logger.Debug("stock snapshot fetched",
		zap.String("company", company),
		zap.Int("items", len(scopedItemCodes)),
		zap.Int("rows", len(rows.Data)))
	return snapshot, nil
}

// Exists reports whether a warehouse document with the canonical name
// exists. Warehouse names are site-unique in ERPNext, so the company is
// only used for logging.
func (c *Client) Exists(ctx context.Context, company, canonicalName string) (bool, error) {
	var doc dataEnvelope[createdDoc]
	err := c.get(ctx, "/api/resource/Warehouse/"+url.PathEscape(canonicalName), nil, &doc)
	if err == nil {
		return true, nil
	}
	var se *statusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("erpnext: check warehouse %q: %w", canonicalName, err)
}

// Create creates a warehouse document. The warehouse_name is the
// unscoped portion; ERPNext appends the company abbreviation itself,
// yielding the canonical name.
func (c *Client) Create(ctx context.Context, company, canonicalName string, role warehouse.Role) error {
	body := createWarehouseRequest{
		WarehouseName: unscopedPortion(canonicalName),
		Company:       company,
		WarehouseType: string(role),
	}
	var created dataEnvelope[createdDoc]
	if err := c.post(ctx, "/api/resource/Warehouse", body, &created); err != nil {
		return fmt.Errorf("erpnext: create warehouse %q: %w", canonicalName, err)
	}
	return nil
}

// FindByDisplayName lists the company's warehouses sharing a display name
func (c *Client) FindByDisplayName(ctx context.Context, company, displayName string) ([]warehouse.Record, error) {
	filters, err := json.Marshal([][]any{
		{"company", "=", company},
		{"warehouse_name", "like", displayName + "%"},
	})
	if err != nil {
		return nil, fmt.Errorf("erpnext: encode warehouse filters: %w", err)
	}
	query := url.Values{
		"filters":           {string(filters)},
		"fields":            {`["name","warehouse_name"]`},
		"limit_page_length": {"0"},
	}

	var rows dataEnvelope[[]warehouseRow]
	if err := c.get(ctx, "/api/resource/Warehouse", query, &rows); err != nil {
		return nil, fmt.Errorf("erpnext: find warehouses %q: %w", displayName, err)
	}

	records := make([]warehouse.Record, 0, len(rows.Data))
	for _, row := range rows.Data {
		records = append(records, warehouse.Record{Name: row.Name, DisplayName: row.DisplayName})
	}
	return records, nil
}

// EnsureRoleType creates the Warehouse Type taxonomy entry for the role.
// An already-existing entry is not an error.
func (c *Client) EnsureRoleType(ctx context.Context, role warehouse.Role) error {
	var created dataEnvelope[createdDoc]
	err := c.post(ctx, "/api/resource/Warehouse Type", createWarehouseTypeRequest{Name: string(role)}, &created)
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("erpnext: ensure warehouse type %s: %w", role, err)
}

// CreateDeliveryNote posts the assembled delivery document and returns
// the created document name.
func (c *Client) CreateDeliveryNote(ctx context.Context, note delivery.Note) (string, error) {
	body := deliveryNoteRequest{
		Company:       note.Company,
		Customer:      note.Customer,
		ReturnAgainst: note.ReturnAgainst,
		Items:         make([]deliveryNoteItem, 0, len(note.Lines)),
	}
	if note.IsReturn {
		body.IsReturn = 1
	}
	for _, line := range note.Lines {
		body.Items = append(body.Items, deliveryNoteItem{
			ItemCode:  line.ItemCode,
			Qty:       line.Qty,
			Warehouse: line.Warehouse,
			DNDetail:  line.AgainstLine,
		})
	}

	var created dataEnvelope[createdDoc]
	if err := c.post(ctx, "/api/resource/Delivery Note", body, &created); err != nil {
		return "", fmt.Errorf("erpnext: create delivery note: %w", err)
	}
	return created.Data.Name, nil
}

// get issues an authenticated GET and decodes the response into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues an authenticated POST with a JSON body
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, encoded, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.config.APIKey+":"+c.config.APISecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{StatusCode: resp.StatusCode, Body: truncate(string(payload), 512)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// unscopedPortion drops the trailing " - <ABBR>" scope suffix; ERPNext
// re-appends the abbreviation on create.
func unscopedPortion(canonicalName string) string {
	if idx := strings.LastIndex(canonicalName, " - "); idx >= 0 {
		return canonicalName[:idx]
	}
	return canonicalName
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
