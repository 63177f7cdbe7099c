package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/calculator"
	"github.com/router-for-me/calculator-api/internal/metrics"
	"github.com/router-for-me/calculator-api/internal/store"
	log "github.com/sirupsen/logrus"
)

// CalculatorHandler runs calculations and serves the caller's history.
type CalculatorHandler struct {
	calculations *store.CalculationStore
}

// NewCalculatorHandler constructs a CalculatorHandler.
func NewCalculatorHandler(calculations *store.CalculationStore) *CalculatorHandler {
	return &CalculatorHandler{calculations: calculations}
}

// calculateRequest uses pointers so that a zero operand is distinguishable from a missing one.
type calculateRequest struct {
	Operation string   `json:"operation" binding:"required"`
	Operand1  *float64 `json:"operand1" binding:"required"`
	Operand2  *float64 `json:"operand2" binding:"required"`
}

// Calculate evaluates the requested operation and records it for the caller.
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, MessageUnauthorized)
		return
	}
	var body calculateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondBindError(c, errBind, "invalid json")
		return
	}
	a, b := *body.Operand1, *body.Operand2

	op, errOp := calculator.ParseOperation(body.Operation)
	if errOp != nil {
		metrics.RecordCalculation("invalid", "invalid_operation")
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidOperationMessage(errOp)})
		return
	}
	result, errApply := calculator.Apply(op, a, b)
	if errApply != nil {
		if errors.Is(errApply, calculator.ErrDivisionByZero) {
			metrics.RecordCalculation(string(op), "division_by_zero")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot divide by zero"})
			return
		}
		log.WithError(errApply).Error("calculator: apply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "calculation failed"})
		return
	}
	// JSON cannot carry Inf or NaN.
	if math.IsInf(result, 0) || math.IsNaN(result) {
		metrics.RecordCalculation(string(op), "overflow")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Result is out of range"})
		return
	}

	if _, errCreate := h.calculations.Create(c.Request.Context(), user.ID, string(op), a, b, result); errCreate != nil {
		if errors.Is(errCreate, store.ErrNotFound) {
			RespondUnauthorized(c, MessageUnauthorized)
			return
		}
		log.WithError(errCreate).WithField("user_id", user.ID).Error("calculator: save calculation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save calculation failed"})
		return
	}
	metrics.RecordCalculation(string(op), "success")
	c.JSON(http.StatusOK, gin.H{
		"operation": string(op),
		"operand1":  a,
		"operand2":  b,
		"result":    result,
		"message": fmt.Sprintf("Successfully calculated: %s %s %s = %s",
			formatNumber(a), op, formatNumber(b), formatNumber(result)),
	})
}

// History returns the caller's calculations, newest first.
func (h *CalculatorHandler) History(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, MessageUnauthorized)
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	rows, errList := h.calculations.ListForUser(c.Request.Context(), user.ID, page)
	if errList != nil {
		log.WithError(errList).WithField("user_id", user.ID).Error("calculator: list history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list history failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":         row.ID,
			"operation":  row.Operation,
			"operand1":   row.Operand1,
			"operand2":   row.Operand2,
			"result":     row.Result,
			"created_at": row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ClearHistory deletes every calculation owned by the caller.
func (h *CalculatorHandler) ClearHistory(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, MessageUnauthorized)
		return
	}
	removed, errClear := h.calculations.ClearForUser(c.Request.Context(), user.ID)
	if errClear != nil {
		log.WithError(errClear).WithField("user_id", user.ID).Error("calculator: clear history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear history failed"})
		return
	}
	log.WithFields(log.Fields{"user_id": user.ID, "removed": removed}).Info("calculator: history cleared")
	c.Status(http.StatusNoContent)
}

// invalidOperationMessage renders the client-facing text for an unsupported operation.
func invalidOperationMessage(err error) string {
	name := ""
	var invalid *calculator.InvalidOperationError
	if errors.As(err, &invalid) {
		name = invalid.Name
	}
	return fmt.Sprintf("Invalid operation: %s. Use: %s", name, calculator.SupportedNames())
}

// formatNumber renders integral values with a trailing ".0" so 10 reads as 10.0.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		s = strconv.FormatFloat(v, 'f', 1, 64)
	}
	return s
}
