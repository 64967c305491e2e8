package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fiskryeziu/hotdrop/pkg/resp"
	"github.com/fiskryeziu/hotdrop/services"
	"github.com/fiskryeziu/hotdrop/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Service.Create(uid, &req)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, gin.H{"id": order.ID, "total": order.Total, "status": order.Status})
}

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	orders, err := oc.Service.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": orders})
}

// GET /orders/:id (owner only)
func (oc *OrderController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	order, err := oc.Service.Detail(uint(id), utils.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, order)
}

type UpdateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// PUT /orders/:id/status (admin/delivery)
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Service.UpdateStatus(uint(id), req.Status, utils.CurrentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidTransition):
			resp.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrForbidden):
			resp.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, err.Error())
		case errors.Is(err, services.ErrConflict):
			resp.Conflict(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, order)
}
