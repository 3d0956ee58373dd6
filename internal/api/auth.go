package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	TaxID    string `json:"cpf"`   // CPF
	Email    string `json:"email"` // Email
	Name     string `json:"nome"`  // Display name
	Password string `json:"senha"` // Plain password, hashed before storage
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	TaxID    string `json:"cpf"`   // CPF
	Password string `json:"senha"` // Plain password
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	AccessToken string       `json:"access_token"` // JWT bearer token
	User        UserResponse `json:"user"`         // Authenticated user
}

// RegisterHandler creates a new investor account
func RegisterHandler(identity *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Dados não fornecidos")
			return
		}
		// Field checks and uniqueness live in the service
		_, err := identity.Register(c.Request.Context(), service.RegisterInput{
			TaxID:    req.TaxID,
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Usuário criado com sucesso"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(identity *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "CPF e senha são obrigatórios")
			return
		}
		token, user, err := identity.Authenticate(c.Request.Context(), req.TaxID, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: newUserResponse(user)})
	}
}

// ProfileHandler returns the authenticated user
func ProfileHandler(identity *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		user, err := identity.Profile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user))
	}
}
