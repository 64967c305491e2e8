package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
	"github.com/fiskryeziu/hotdrop/pkg/resp"
	"github.com/fiskryeziu/hotdrop/utils"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	// Admin accounts are seeded, never self-registered.
	Role string `json:"role" binding:"omitempty,oneof=customer delivery"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthController(db *gorm.DB, secret string, ttl time.Duration) *AuthController {
	return &AuthController{DB: db, JWTSecret: secret, JWTTTL: ttl}
}

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var exist entity.User
	if err := a.DB.Where("email = ?", strings.ToLower(req.Email)).First(&exist).Error; err == nil {
		resp.BadRequest(c, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = entity.RoleCustomer
	}

	user := entity.User{
		Email:       strings.ToLower(req.Email),
		Password:    string(hashed),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Role:        role,
	}

	if err := a.DB.Create(&user).Error; err != nil {
		resp.ServerError(c, err)
		return
	}

	resp.Created(c, gin.H{
		"id": user.ID, "email": user.Email, "firstName": user.FirstName,
		"lastName": user.LastName, "role": user.Role,
	})
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var user entity.User
	if err := a.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, a.JWTSecret, a.JWTTTL)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"user": gin.H{
			"id": user.ID, "email": user.Email, "firstName": user.FirstName,
			"lastName": user.LastName, "role": user.Role,
		},
	})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	var user entity.User
	if err := a.DB.First(&user, utils.CurrentUserID(c)).Error; err != nil {
		resp.BadRequest(c, "user not found")
		return
	}
	resp.OK(c, gin.H{
		"id": user.ID, "email": user.Email, "firstName": user.FirstName,
		"lastName": user.LastName, "phoneNumber": user.PhoneNumber,
		"address": user.Address, "role": user.Role,
	})
}
