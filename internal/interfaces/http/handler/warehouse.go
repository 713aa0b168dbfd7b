package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/warehouse"
	"github.com/erpbridge/backend/internal/interfaces/http/dto"
)

// WarehouseHandler exposes warehouse provisioning over HTTP
type WarehouseHandler struct {
	BaseHandler
	provisioner *warehouse.Provisioner
}

func NewWarehouseHandler(provisioner *warehouse.Provisioner) *WarehouseHandler {
	return &WarehouseHandler{provisioner: provisioner}
}

// Ensure creates the role-variant warehouse for a base location if the
// ERP does not have it yet
// POST /api/v1/warehouses/ensure
func (h *WarehouseHandler) Ensure(c *gin.Context) {
	var req dto.EnsureWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sc := scope.Scope{CompanyName: req.Company, Abbr: req.Abbr}
	result, err := h.provisioner.Ensure(
		c.Request.Context(), req.Company, sc, req.BaseCode, warehouse.Role(req.Role), req.Owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.AutoCreated {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}
