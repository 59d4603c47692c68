// Package ledger holds the canonical entity collections and the mutation
// operations that keep source balances consistent with the transaction
// history. Operations are value-semantics: each returns a new Store
// snapshot, leaving the receiver untouched, so callers re-derive views
// from whichever snapshot they hold.
package ledger

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Store is the single source of truth. Its JSON form is exactly the
// persisted snapshot blob.
type Store struct {
	Transactions            []core.Transaction            `json:"transactions"`
	Loans                   []core.Loan                   `json:"loans"`
	Investments             []core.Investment             `json:"investments"`
	Budgets                 []core.Budget                 `json:"budgets"`
	Accounts                []core.BankAccount            `json:"accounts"`
	CreditCards             []core.CreditCard             `json:"creditCards"`
	Wallets                 []core.Wallet                 `json:"wallets"`
	Profile                 *core.UserProfile             `json:"profile,omitempty"`
	Metadata                core.AppMetadata              `json:"metadata"`
	NotificationPreferences *core.NotificationPreferences `json:"notificationPreferences,omitempty"`
}

// New returns an empty store carrying the default taxonomy and
// notification preferences.
func New() Store {
	prefs := core.DefaultPreferences()
	return Store{
		Transactions:            []core.Transaction{},
		Loans:                   []core.Loan{},
		Investments:             []core.Investment{},
		Budgets:                 []core.Budget{},
		Accounts:                []core.BankAccount{},
		CreditCards:             []core.CreditCard{},
		Wallets:                 []core.Wallet{},
		Metadata:                core.DefaultMetadata(),
		NotificationPreferences: &prefs,
	}
}

// WithDefaults backfills top-level fields missing from an older snapshot
// blob. Unknown history never causes a load failure.
func (s Store) WithDefaults() Store {
	if s.Transactions == nil {
		s.Transactions = []core.Transaction{}
	}
	if s.Loans == nil {
		s.Loans = []core.Loan{}
	}
	if s.Investments == nil {
		s.Investments = []core.Investment{}
	}
	if s.Budgets == nil {
		s.Budgets = []core.Budget{}
	}
	if s.Accounts == nil {
		s.Accounts = []core.BankAccount{}
	}
	if s.CreditCards == nil {
		s.CreditCards = []core.CreditCard{}
	}
	if s.Wallets == nil {
		s.Wallets = []core.Wallet{}
	}
	s.Metadata = s.Metadata.WithDefaults()
	if s.NotificationPreferences == nil {
		prefs := core.DefaultPreferences()
		s.NotificationPreferences = &prefs
	}
	return s
}

// Preferences returns the effective notification preferences.
func (s Store) Preferences() core.NotificationPreferences {
	if s.NotificationPreferences == nil {
		return core.DefaultPreferences()
	}
	return *s.NotificationPreferences
}

func (s Store) clone() Store {
	out := s
	out.Transactions = append([]core.Transaction(nil), s.Transactions...)
	out.Loans = append([]core.Loan(nil), s.Loans...)
	out.Investments = append([]core.Investment(nil), s.Investments...)
	out.Budgets = append([]core.Budget(nil), s.Budgets...)
	out.Accounts = append([]core.BankAccount(nil), s.Accounts...)
	out.CreditCards = append([]core.CreditCard(nil), s.CreditCards...)
	out.Wallets = append([]core.Wallet(nil), s.Wallets...)
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.NotificationPreferences != nil {
		prefs := *s.NotificationPreferences
		out.NotificationPreferences = &prefs
	}
	return out
}

// FindAccount looks up a bank account by id.
func (s Store) FindAccount(id string) (core.BankAccount, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return core.BankAccount{}, false
}

// FindCard looks up a credit card by id.
func (s Store) FindCard(id string) (core.CreditCard, bool) {
	for _, c := range s.CreditCards {
		if c.ID == id {
			return c, true
		}
	}
	return core.CreditCard{}, false
}

// FindWallet looks up a wallet by id.
func (s Store) FindWallet(id string) (core.Wallet, bool) {
	for _, w := range s.Wallets {
		if w.ID == id {
			return w, true
		}
	}
	return core.Wallet{}, false
}

// FindLoan looks up a loan by id.
func (s Store) FindLoan(id string) (core.Loan, bool) {
	for _, l := range s.Loans {
		if l.ID == id {
			return l, true
		}
	}
	return core.Loan{}, false
}

// FindTransaction looks up a transaction by id.
func (s Store) FindTransaction(id string) (core.Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// AddAccount appends a bank account. The id must be pre-assigned.
func (s Store) AddAccount(a core.BankAccount) Store {
	out := s.clone()
	a.Type = "bank"
	out.Accounts = append(out.Accounts, a)
	return out
}

// UpdateAccount replaces the account with matching id; no-op when absent.
func (s Store) UpdateAccount(a core.BankAccount) Store {
	out := s.clone()
	for i := range out.Accounts {
		if out.Accounts[i].ID == a.ID {
			a.Type = "bank"
			out.Accounts[i] = a
			break
		}
	}
	return out
}

// DeleteAccount removes the account with matching id; no-op when absent.
// Transactions referencing it keep their stale sourceId.
func (s Store) DeleteAccount(id string) Store {
	out := s.clone()
	out.Accounts = deleteByID(out.Accounts, id, func(a core.BankAccount) string { return a.ID })
	return out
}

// AddCard appends a credit card.
func (s Store) AddCard(c core.CreditCard) Store {
	out := s.clone()
	c.Type = "card"
	out.CreditCards = append(out.CreditCards, c)
	return out
}

// UpdateCard replaces the card with matching id; no-op when absent.
func (s Store) UpdateCard(c core.CreditCard) Store {
	out := s.clone()
	for i := range out.CreditCards {
		if out.CreditCards[i].ID == c.ID {
			c.Type = "card"
			out.CreditCards[i] = c
			break
		}
	}
	return out
}

// DeleteCard removes the card with matching id; no-op when absent.
func (s Store) DeleteCard(id string) Store {
	out := s.clone()
	out.CreditCards = deleteByID(out.CreditCards, id, func(c core.CreditCard) string { return c.ID })
	return out
}

// AddWallet appends a wallet.
func (s Store) AddWallet(w core.Wallet) Store {
	out := s.clone()
	w.Type = "wallet"
	out.Wallets = append(out.Wallets, w)
	return out
}

// UpdateWallet replaces the wallet with matching id; no-op when absent.
func (s Store) UpdateWallet(w core.Wallet) Store {
	out := s.clone()
	for i := range out.Wallets {
		if out.Wallets[i].ID == w.ID {
			w.Type = "wallet"
			out.Wallets[i] = w
			break
		}
	}
	return out
}

// DeleteWallet removes the wallet with matching id; no-op when absent.
func (s Store) DeleteWallet(id string) Store {
	out := s.clone()
	out.Wallets = deleteByID(out.Wallets, id, func(w core.Wallet) string { return w.ID })
	return out
}

// AddLoan appends a loan.
func (s Store) AddLoan(l core.Loan) Store {
	out := s.clone()
	out.Loans = append(out.Loans, l)
	return out
}

// UpdateLoan replaces the loan with matching id; no-op when absent.
func (s Store) UpdateLoan(l core.Loan) Store {
	out := s.clone()
	for i := range out.Loans {
		if out.Loans[i].ID == l.ID {
			out.Loans[i] = l
			break
		}
	}
	return out
}

// DeleteLoan removes the loan with matching id; no-op when absent.
func (s Store) DeleteLoan(id string) Store {
	out := s.clone()
	out.Loans = deleteByID(out.Loans, id, func(l core.Loan) string { return l.ID })
	return out
}

// ApplyLoanPayment credits amount against the loan's paid total, clamped
// at the principal. Excess over the principal is silently discarded.
func (s Store) ApplyLoanPayment(id string, amount decimal.Decimal) Store {
	out := s.clone()
	for i := range out.Loans {
		if out.Loans[i].ID == id {
			paid := out.Loans[i].PaidAmount.Add(amount)
			out.Loans[i].PaidAmount = decimal.Min(out.Loans[i].Principal, paid)
			break
		}
	}
	return out
}

// AddInvestment appends a holding.
func (s Store) AddInvestment(inv core.Investment) Store {
	out := s.clone()
	out.Investments = append(out.Investments, inv)
	return out
}

// UpdateInvestment replaces the holding with matching id; no-op when absent.
func (s Store) UpdateInvestment(inv core.Investment) Store {
	out := s.clone()
	for i := range out.Investments {
		if out.Investments[i].ID == inv.ID {
			out.Investments[i] = inv
			break
		}
	}
	return out
}

// DeleteInvestment removes the holding with matching id; no-op when absent.
func (s Store) DeleteInvestment(id string) Store {
	out := s.clone()
	out.Investments = deleteByID(out.Investments, id, func(i core.Investment) string { return i.ID })
	return out
}

// SetBudget replaces the budget for (category, subCategory) in place,
// preserving the existing id, or appends a new one.
func (s Store) SetBudget(b core.Budget) Store {
	out := s.clone()
	for i := range out.Budgets {
		if out.Budgets[i].Category == b.Category && out.Budgets[i].SubCategory == b.SubCategory {
			b.ID = out.Budgets[i].ID
			out.Budgets[i] = b
			return out
		}
	}
	out.Budgets = append(out.Budgets, b)
	return out
}

// DeleteBudget removes the budget with matching id; no-op when absent.
func (s Store) DeleteBudget(id string) Store {
	out := s.clone()
	out.Budgets = deleteByID(out.Budgets, id, func(b core.Budget) string { return b.ID })
	return out
}

// SetPreferences replaces the notification preferences.
func (s Store) SetPreferences(p core.NotificationPreferences) Store {
	out := s.clone()
	out.NotificationPreferences = &p
	return out
}

// SetProfile replaces the user profile.
func (s Store) SetProfile(p core.UserProfile) Store {
	out := s.clone()
	out.Profile = &p
	return out
}

func deleteByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
