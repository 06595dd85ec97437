package handlers

import (
	"net/http"
	"time"

	budgetRepo "finbook/database/repository/budget"
	cardRepo "finbook/database/repository/card"
	transactionRepo "finbook/database/repository/transaction"
	"finbook/models"
	"finbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FinanceHandler serves the card, budget and transaction JSON API.
type FinanceHandler struct {
	Cards        cardRepo.CardRepository
	Budgets      budgetRepo.BudgetRepository
	Transactions transactionRepo.TransactionRepository
}

func NewFinanceHandler(
	cards cardRepo.CardRepository,
	budgets budgetRepo.BudgetRepository,
	transactions transactionRepo.TransactionRepository,
) *FinanceHandler {
	return &FinanceHandler{Cards: cards, Budgets: budgets, Transactions: transactions}
}

// CreateCardHandler stores a new card for the authenticated user.
func (h *FinanceHandler) CreateCardHandler(c *gin.Context) {
	var card models.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid card payload", err.Error())
		return
	}
	card.ID = uuid.NewString()
	card.UserID = c.GetString("userID")

	if err := h.Cards.Create(&card); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create card", err.Error())
		return
	}
	c.JSON(http.StatusCreated, card)
}

// ListCardsHandler returns the authenticated user's cards.
func (h *FinanceHandler) ListCardsHandler(c *gin.Context) {
	cards, err := h.Cards.GetByUserID(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list cards", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// DeleteCardHandler removes one of the authenticated user's cards.
func (h *FinanceHandler) DeleteCardHandler(c *gin.Context) {
	card, err := h.Cards.GetByID(c.Param("id"))
	if err != nil || card.UserID != c.GetString("userID") {
		utils.JSONError(c, http.StatusNotFound, "Card not found", "")
		return
	}
	if err := h.Cards.Delete(card.ID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete card", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateBudgetHandler stores a new budget for the authenticated user.
func (h *FinanceHandler) CreateBudgetHandler(c *gin.Context) {
	var budget models.Budget
	if err := c.ShouldBindJSON(&budget); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid budget payload", err.Error())
		return
	}
	budget.ID = uuid.NewString()
	budget.UserID = c.GetString("userID")

	if err := h.Budgets.Create(&budget); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create budget", err.Error())
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// ListBudgetsHandler returns the authenticated user's budgets.
func (h *FinanceHandler) ListBudgetsHandler(c *gin.Context) {
	budgets, err := h.Budgets.GetByUserID(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list budgets", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// CreateTransactionHandler stores a spend record. A transaction tied to a
// budget also bumps that budget's running spent amount.
func (h *FinanceHandler) CreateTransactionHandler(c *gin.Context) {
	var txn models.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid transaction payload", err.Error())
		return
	}
	txn.ID = uuid.NewString()
	txn.UserID = c.GetString("userID")
	if txn.OccurredAt.IsZero() {
		txn.OccurredAt = time.Now()
	}

	if err := h.Transactions.Create(&txn); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create transaction", err.Error())
		return
	}
	if txn.BudgetID != "" {
		if err := h.Budgets.AddSpent(txn.BudgetID, txn.Amount); err != nil {
			utils.GetLogger().Sugar().Warnw("failed to bump budget spend",
				"budgetId", txn.BudgetID, "error", err)
		}
	}
	c.JSON(http.StatusCreated, txn)
}

// ListTransactionsHandler returns the authenticated user's transactions.
func (h *FinanceHandler) ListTransactionsHandler(c *gin.Context) {
	txns, err := h.Transactions.GetByUserID(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list transactions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
