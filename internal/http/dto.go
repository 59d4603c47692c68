package http

import (
	"fintrack/internal/core"
)

// transactionRequest carries a ledger entry as submitted by the client.
// Amounts arrive as strings, the way form inputs produce them, and are
// parsed with the tolerant decimal parser.
type transactionRequest struct {
	Amount      string               `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Category    core.Category        `json:"category"`
	SubCategory string               `json:"subCategory"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	SourceID    string               `json:"sourceId,omitempty"`
	LoanID      string               `json:"loanId,omitempty"`
}

func (req transactionRequest) toTransaction(id string) (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          id,
		Amount:      amount,
		Type:        req.Type,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Description: req.Description,
		Date:        req.Date,
		SourceID:    req.SourceID,
		LoanID:      req.LoanID,
	}, nil
}

type loanPaymentRequest struct {
	Amount string `json:"amount"`
}

type subCategoryRequest struct {
	Type     core.TransactionType `json:"type"`
	Category core.Category        `json:"category"`
	Name     string               `json:"name"`
}

type renameSubCategoryRequest struct {
	Type     core.TransactionType `json:"type"`
	Category core.Category        `json:"category"`
	From     string               `json:"from"`
	To       string               `json:"to"`
}

type loanProjectionResponse struct {
	Loan          core.Loan             `json:"loan"`
	EMI           float64               `json:"emi"`
	Projection    core.PayoffProjection `json:"projection"`
	Disbursements []core.Transaction    `json:"disbursements"`
}

type healthResponse struct {
	Status string `json:"status"`
}
