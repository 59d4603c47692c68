package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

// --- transactions ---

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := s.svc.Snapshot().Transactions

	tt := core.TransactionType(r.URL.Query().Get("type"))
	cat := core.Category(r.URL.Query().Get("category"))
	if tt != "" || cat != "" {
		filtered := make([]core.Transaction, 0, len(transactions))
		for _, t := range transactions {
			if tt != "" && t.Type != tt {
				continue
			}
			if cat != "" && t.Category != cat {
				continue
			}
			filtered = append(filtered, t)
		}
		transactions = filtered
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := req.toTransaction("")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	added, err := s.svc.AddTransaction(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.svc.RefreshInsights(r.Context())
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := req.toTransaction(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.svc.UpdateTransaction(r.Context(), t); err != nil {
		writeDomainError(w, err)
		return
	}
	s.svc.RefreshInsights(r.Context())
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- accounts ---

func (s *Server) handleListAccounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Accounts)
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	var a core.BankAccount
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = ""
	added, err := s.svc.AddAccount(r.Context(), a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.BankAccount
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateAccount(r.Context(), a); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- cards ---

func (s *Server) handleListCards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().CreditCards)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var c core.CreditCard
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = ""
	added, err := s.svc.AddCard(r.Context(), c)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var c core.CreditCard
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateCard(r.Context(), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- wallets ---

func (s *Server) handleListWallets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Wallets)
}

func (s *Server) handleAddWallet(w http.ResponseWriter, r *http.Request) {
	var wlt core.Wallet
	if !decodeBody(w, r, &wlt) {
		return
	}
	wlt.ID = ""
	added, err := s.svc.AddWallet(r.Context(), wlt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var wlt core.Wallet
	if !decodeBody(w, r, &wlt) {
		return
	}
	wlt.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateWallet(r.Context(), wlt); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wlt)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteWallet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- loans ---

func (s *Server) handleListLoans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Loans)
}

func (s *Server) handleAddLoan(w http.ResponseWriter, r *http.Request) {
	var l core.Loan
	if !decodeBody(w, r, &l) {
		return
	}
	l.ID = ""
	added, err := s.svc.AddLoan(r.Context(), l)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var l core.Loan
	if !decodeBody(w, r, &l) {
		return
	}
	l.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateLoan(r.Context(), l); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteLoan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoanPayment(w http.ResponseWriter, r *http.Request) {
	var req loanPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	loan, err := s.svc.RecordLoanPayment(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) handleLoanProjection(w http.ResponseWriter, r *http.Request) {
	loan, emi, projection, err := s.svc.LoanProjection(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Income entries tagged with this loan are its disbursements.
	disbursements := []core.Transaction{}
	for _, t := range s.svc.Snapshot().Transactions {
		if t.LoanID == loan.ID {
			disbursements = append(disbursements, t)
		}
	}

	writeJSON(w, http.StatusOK, loanProjectionResponse{
		Loan:          loan,
		EMI:           emi,
		Projection:    projection,
		Disbursements: disbursements,
	})
}

// --- investments ---

func (s *Server) handleListInvestments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Investments)
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var inv core.Investment
	if !decodeBody(w, r, &inv) {
		return
	}
	inv.ID = ""
	added, err := s.svc.AddInvestment(r.Context(), inv)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv core.Investment
	if !decodeBody(w, r, &inv) {
		return
	}
	inv.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateInvestment(r.Context(), inv); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteInvestment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- budgets ---

func (s *Server) handleListBudgets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Budgets)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if !decodeBody(w, r, &b) {
		return
	}
	b.ID = ""
	stored, err := s.svc.SetBudget(r.Context(), b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetPerformance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.BudgetPerformance())
}
