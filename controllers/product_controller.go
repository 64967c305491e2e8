package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/pkg/resp"
	"github.com/fiskryeziu/hotdrop/repository"
)

type ProductController struct {
	Repo *repository.ProductRepository
}

func NewProductController(repo *repository.ProductRepository) *ProductController {
	return &ProductController{Repo: repo}
}

// GET /products
func (pc *ProductController) List(c *gin.Context) {
	products, err := pc.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": products})
}

// GET /products/:id
func (pc *ProductController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	p, err := pc.Repo.Get(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "product not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, p)
}

// GET /categories/:id/products
func (pc *ProductController) ByCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	products, err := pc.Repo.ListByCategory(uint(id))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": products})
}
