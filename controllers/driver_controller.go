package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fiskryeziu/hotdrop/pkg/resp"
	"github.com/fiskryeziu/hotdrop/services"
	"github.com/fiskryeziu/hotdrop/utils"
)

type DriverController struct {
	Service *services.OrderService
}

func NewDriverController(service *services.OrderService) *DriverController {
	return &DriverController{Service: service}
}

// GET /driver/orders, the ready and in-flight orders for the dashboard.
func (dc *DriverController) Jobs(c *gin.Context) {
	orders, err := dc.Service.ListDeliverable()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": orders})
}

// POST /driver/orders/:id/claim
func (dc *DriverController) Claim(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	order, err := dc.Service.ClaimDelivery(uint(id), utils.CurrentUserID(c), utils.CurrentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			resp.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, err.Error())
		case errors.Is(err, services.ErrConflict):
			resp.Conflict(c, "order already claimed")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, order)
}
