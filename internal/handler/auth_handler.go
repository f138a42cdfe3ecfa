package handler

import (
	"strings"

	"foodstack-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the admin login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Anonymous issues the staff token a device receives on launch
// POST /api/v1/auth/anonymous
func (h *AuthHandler) Anonymous(c *fiber.Ctx) error {
	response, err := h.authService.AnonymousSession()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}

// AdminLogin handles administrator authentication
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	response, err := h.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(response)
}

// ValidateToken reports the role and privileges carried by a token
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&body); err == nil {
			token = body.Token
		}
	}

	response, err := h.authService.ValidateToken(token)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}
