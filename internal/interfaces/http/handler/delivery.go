package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/erpbridge/backend/internal/application/delivery"
	"github.com/erpbridge/backend/internal/domain/allocation"
	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/warehouse"
	"github.com/erpbridge/backend/internal/interfaces/http/dto"
)

// DeliveryHandler exposes the delivery-document pipeline over HTTP
type DeliveryHandler struct {
	BaseHandler
	service *delivery.Service
}

func NewDeliveryHandler(service *delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// BuildLines assembles the warehouse-resolved line items of a delivery
// document without creating anything in the ERP
// POST /api/v1/deliveries/lines
func (h *DeliveryHandler) BuildLines(c *gin.Context) {
	var req dto.BuildDeliveryLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sc := scope.Scope{CompanyName: req.Company, Abbr: req.Abbr}
	items := toLineRequests(req.Items, sc)

	result, err := h.service.BuildLines(c.Request.Context(), req.Company, sc, items, req.IsReturn)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Preview dry-runs the allocation and reports per-item shortage
// POST /api/v1/deliveries/preview
func (h *DeliveryHandler) Preview(c *gin.Context) {
	var req dto.PreviewAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sc := scope.Scope{CompanyName: req.Company, Abbr: req.Abbr}
	items := toLineRequests(req.Items, sc)

	result, err := h.service.PreviewAllocation(c.Request.Context(), req.Company, sc, items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create builds the lines and posts the delivery note to the ERP
// POST /api/v1/deliveries
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sc := scope.Scope{CompanyName: req.Company, Abbr: req.Abbr}
	items := toLineRequests(req.Items, sc)

	name, built, err := h.service.CreateDeliveryNote(
		c.Request.Context(), req.Company, sc, req.Customer, items, req.IsReturn, req.ReturnAgainst)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.CreateDeliveryNoteResponse{Name: name, Lines: built.Lines})
}

// toLineRequests converts the wire items into service line requests.
// Group entries that fail to parse as canonical names are skipped;
// the resolver falls back to the remaining lookup paths.
func toLineRequests(items []dto.DeliveryLineItem, sc scope.Scope) []delivery.LineRequest {
	out := make([]delivery.LineRequest, 0, len(items))
	for _, item := range items {
		req := delivery.LineRequest{
			ItemCode:         item.ItemCode,
			Qty:              decimal.NewFromFloat(item.Qty),
			Ownership:        warehouse.Role(item.Ownership),
			Owner:            item.Owner,
			DisplayWarehouse: item.DisplayWarehouse,
			WarehouseName:    item.Warehouse,
			AgainstLine:      item.AgainstLine,
		}
		for _, name := range item.Group {
			token, ok := warehouse.Parse(name, sc)
			if !ok {
				continue
			}
			req.Group = append(req.Group, allocation.Candidate{
				Token:       token,
				Name:        name,
				DisplayName: token.BaseCode,
			})
		}
		out = append(out, req)
	}
	return out
}
