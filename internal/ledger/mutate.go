package ledger

import (
	"fmt"
	"slices"

	"fintrack/internal/core"
)

// applyEffect moves money on the source a transaction points at. Income
// credits bank accounts first, then wallets. Expenses debit accounts,
// raise card outstanding, or debit wallets, in that resolution order.
// A sourceId that matches nothing is skipped: the transaction stays in
// the history, balances untouched.
func (s *Store) applyEffect(t core.Transaction, sign int) {
	if t.SourceID == "" {
		return
	}
	delta := t.Amount
	if sign < 0 {
		delta = delta.Neg()
	}

	switch t.Type {
	case core.Income:
		if i := indexByID(s.Accounts, t.SourceID, func(a core.BankAccount) string { return a.ID }); i >= 0 {
			s.Accounts[i].Balance = s.Accounts[i].Balance.Add(delta)
			return
		}
		if i := indexByID(s.Wallets, t.SourceID, func(w core.Wallet) string { return w.ID }); i >= 0 {
			s.Wallets[i].Balance = s.Wallets[i].Balance.Add(delta)
		}
	case core.Expense:
		if i := indexByID(s.Accounts, t.SourceID, func(a core.BankAccount) string { return a.ID }); i >= 0 {
			s.Accounts[i].Balance = s.Accounts[i].Balance.Sub(delta)
			return
		}
		if i := indexByID(s.CreditCards, t.SourceID, func(c core.CreditCard) string { return c.ID }); i >= 0 {
			s.CreditCards[i].Outstanding = s.CreditCards[i].Outstanding.Add(delta)
			return
		}
		if i := indexByID(s.Wallets, t.SourceID, func(w core.Wallet) string { return w.ID }); i >= 0 {
			s.Wallets[i].Balance = s.Wallets[i].Balance.Sub(delta)
		}
	}
}

// AddTransaction records t and applies its balance effect. A loanId on
// an income marks a disbursement; it tags the entry but moves nothing on
// the loan itself.
func (s Store) AddTransaction(t core.Transaction) Store {
	out := s.clone()
	out.applyEffect(t, +1)
	out.Transactions = append(out.Transactions, t)
	return out
}

// UpdateTransaction replaces the stored transaction with matching id,
// first reversing the old entry's balance effect and then applying the
// new one. Editing across sources or types therefore settles both sides.
// No-op when the id is unknown.
func (s Store) UpdateTransaction(t core.Transaction) Store {
	i := indexByID(s.Transactions, t.ID, func(x core.Transaction) string { return x.ID })
	if i < 0 {
		return s
	}
	out := s.clone()
	out.applyEffect(out.Transactions[i], -1)
	out.applyEffect(t, +1)
	out.Transactions[i] = t
	return out
}

// DeleteTransaction reverses the entry's balance effect and removes it
// from the history. Deleting an unknown id is a no-op, so replaying a
// delete is safe.
func (s Store) DeleteTransaction(id string) Store {
	i := indexByID(s.Transactions, id, func(x core.Transaction) string { return x.ID })
	if i < 0 {
		return s
	}
	out := s.clone()
	out.applyEffect(out.Transactions[i], -1)
	out.Transactions = slices.Delete(out.Transactions, i, i+1)
	return out
}

// AddSubCategory appends name to the taxonomy bucket for (tt, cat).
// Duplicate names are rejected.
func (s Store) AddSubCategory(tt core.TransactionType, cat core.Category, name string) (Store, error) {
	if name == "" {
		return s, core.ErrEmptyName
	}
	if s.Metadata.HasSubCategory(tt, cat, name) {
		return s, core.ErrSubCategoryExists
	}
	out := s.clone()
	out.Metadata = out.Metadata.Clone()
	switch tt {
	case core.Income:
		out.Metadata.IncomeCategories[cat] = append(out.Metadata.IncomeCategories[cat], name)
	case core.Expense:
		out.Metadata.ExpenseCategories[cat] = append(out.Metadata.ExpenseCategories[cat], name)
	default:
		return s, core.ErrInvalidType
	}
	return out, nil
}

// RenameSubCategory renames a taxonomy entry and cascades the rename to
// every transaction carrying it, and to matching expense budgets. The
// rewrite is all-or-nothing: a collision with an existing name leaves
// the store untouched.
func (s Store) RenameSubCategory(tt core.TransactionType, cat core.Category, from, to string) (Store, error) {
	if to == "" {
		return s, core.ErrEmptyName
	}
	if from == to {
		return s, nil
	}
	if !s.Metadata.HasSubCategory(tt, cat, from) {
		return s, fmt.Errorf("subcategory %q: %w", from, ErrNotFound)
	}
	if s.Metadata.HasSubCategory(tt, cat, to) {
		return s, core.ErrSubCategoryExists
	}

	out := s.clone()
	out.Metadata = out.Metadata.Clone()
	renameIn := func(m map[core.Category][]string) {
		subs := m[cat]
		for i, sub := range subs {
			if sub == from {
				subs[i] = to
			}
		}
	}
	switch tt {
	case core.Income:
		renameIn(out.Metadata.IncomeCategories)
	case core.Expense:
		renameIn(out.Metadata.ExpenseCategories)
	default:
		return s, core.ErrInvalidType
	}

	for i := range out.Transactions {
		t := &out.Transactions[i]
		if t.Type == tt && t.Category == cat && t.SubCategory == from {
			t.SubCategory = to
		}
	}
	if tt == core.Expense {
		for i := range out.Budgets {
			b := &out.Budgets[i]
			if b.Category == cat && b.SubCategory == from {
				b.SubCategory = to
			}
		}
	}
	return out, nil
}

// DeleteSubCategory drops a taxonomy entry. Existing transactions and
// budgets keep the stale name; only future entries are constrained.
func (s Store) DeleteSubCategory(tt core.TransactionType, cat core.Category, name string) (Store, error) {
	if !s.Metadata.HasSubCategory(tt, cat, name) {
		return s, fmt.Errorf("subcategory %q: %w", name, ErrNotFound)
	}
	out := s.clone()
	out.Metadata = out.Metadata.Clone()
	drop := func(m map[core.Category][]string) {
		subs := m[cat]
		kept := subs[:0]
		for _, sub := range subs {
			if sub != name {
				kept = append(kept, sub)
			}
		}
		m[cat] = kept
	}
	switch tt {
	case core.Income:
		drop(out.Metadata.IncomeCategories)
	case core.Expense:
		drop(out.Metadata.ExpenseCategories)
	default:
		return s, core.ErrInvalidType
	}
	return out, nil
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}
