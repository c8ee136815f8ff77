package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"
)

const claimsContextKey = "authClaims"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	transactions service.TransactionService
	tokens       *auth.Manager
	logger       *logrus.Logger
}

func NewHandler(users service.UserService, transactions service.TransactionService, tokens *auth.Manager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:        users,
		transactions: transactions,
		tokens:       tokens,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		protected := api.Group("/transactions")
		protected.Use(h.authMiddleware())
		{
			protected.POST("", h.createTransaction)
			protected.GET("", h.listTransactions)
			protected.PUT("/:id", h.updateTransaction)
			protected.DELETE("/:id", h.deleteTransaction)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authMiddleware is the gate in front of every transaction route: it
// extracts the bearer token, verifies it, and attaches the claims to the
// request context. Register and login never pass through it.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := h.tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func currentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTransactionRequest struct {
	Text      string     `json:"text"`
	Amount    *float64   `json:"amount"`
	Category  string     `json:"category"`
	CreatedAt *time.Time `json:"createdAt"`
}

type updateTransactionRequest struct {
	Text      *string    `json:"text"`
	Amount    *float64   `json:"amount"`
	Category  *string    `json:"category"`
	CreatedAt *time.Time `json:"createdAt"`
}

type TransactionResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Text      string  `json:"text"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		default:
			h.logger.WithError(err).Error("register user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.logger.WithError(err).Error("authenticate user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	token, err := h.tokens.Issue(user.Username, user.Email)
	if err != nil {
		h.logger.WithError(err).Error("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) createTransaction(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), claims.Email, claims.Username, service.CreateTransactionInput{
		Text:      req.Text,
		Amount:    req.Amount,
		Category:  req.Category,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
			return
		}
		h.logger.WithError(err).Error("create transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add transaction"})
		return
	}

	c.JSON(http.StatusOK, transactionToResponse(*tx))
}

func (h *Handler) listTransactions(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	txs, err := h.transactions.List(c.Request.Context(), claims.Email)
	if err != nil {
		h.logger.WithError(err).Error("list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch transactions"})
		return
	}

	resp := make([]TransactionResponse, len(txs))
	for i := range txs {
		resp[i] = transactionToResponse(txs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateTransaction(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	tx, err := h.transactions.Update(c.Request.Context(), c.Param("id"), claims.Email, service.UpdateTransactionInput{
		Text:      req.Text,
		Amount:    req.Amount,
		Category:  req.Category,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
			return
		}
		h.logger.WithError(err).Error("update transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update transaction"})
		return
	}

	c.JSON(http.StatusOK, transactionToResponse(*tx))
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	// a miss (unknown id or another user's row) is a no-op, not an error
	if _, err := h.transactions.Delete(c.Request.Context(), c.Param("id"), claims.Email); err != nil {
		h.logger.WithError(err).Error("delete transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func transactionToResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Username:  tx.Username,
		Email:     tx.OwnerEmail,
		Text:      tx.Text,
		Amount:    tx.Amount,
		Category:  tx.Category,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}
