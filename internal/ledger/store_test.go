package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func seedStore() Store {
	s := New()
	s = s.AddAccount(core.BankAccount{ID: "acc-1", Name: "HDFC BANK", Nickname: "Salary", Balance: decimal.NewFromInt(45000)})
	s = s.AddCard(core.CreditCard{ID: "card-1", Name: "VISA INFINITE", Limit: decimal.NewFromInt(100000), Outstanding: decimal.NewFromInt(5000), DueDate: 15})
	s = s.AddWallet(core.Wallet{ID: "wal-1", Name: "Paytm", Provider: core.ProviderWallet, Balance: decimal.NewFromInt(2000)})
	return s
}

func tx(id string, amount int64, tt core.TransactionType, sub, source string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      decimal.NewFromInt(amount),
		Type:        tt,
		Category:    core.Personal,
		SubCategory: sub,
		Date:        "2026-08-10",
		SourceID:    source,
	}
}

func TestTransactionLifecycleKeepsBalanceConsistent(t *testing.T) {
	s := seedStore()

	s = s.AddTransaction(tx("t1", 10000, core.Income, "Salary", "acc-1"))
	acc, ok := s.FindAccount("acc-1")
	require.True(t, ok)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(55000)), "after income: %s", acc.Balance)

	s = s.AddTransaction(tx("t2", 2000, core.Expense, "Groceries", "acc-1"))
	acc, _ = s.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(53000)), "after expense: %s", acc.Balance)

	edited := tx("t2", 5000, core.Expense, "Groceries", "acc-1")
	s = s.UpdateTransaction(edited)
	acc, _ = s.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(50000)), "after edit: %s", acc.Balance)

	s = s.DeleteTransaction("t2")
	acc, _ = s.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(55000)), "after delete: %s", acc.Balance)
	assert.Len(t, s.Transactions, 1)
}

func TestDeleteTransactionIsIdempotent(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 1000, core.Expense, "Dining", "acc-1"))

	s = s.DeleteTransaction("t1")
	acc, _ := s.FindAccount("acc-1")
	require.True(t, acc.Balance.Equal(decimal.NewFromInt(45000)))

	again := s.DeleteTransaction("t1")
	acc, _ = again.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(45000)), "replayed delete must not reverse twice")
	assert.Len(t, again.Transactions, 0)
}

func TestExpenseOnCardRaisesOutstanding(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 3000, core.Expense, "Entertainment", "card-1"))
	card, ok := s.FindCard("card-1")
	require.True(t, ok)
	assert.True(t, card.Outstanding.Equal(decimal.NewFromInt(8000)))

	s = s.DeleteTransaction("t1")
	card, _ = s.FindCard("card-1")
	assert.True(t, card.Outstanding.Equal(decimal.NewFromInt(5000)))
}

func TestIncomeOnCardIsSkipped(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 3000, core.Income, "Salary", "card-1"))
	card, _ := s.FindCard("card-1")
	assert.True(t, card.Outstanding.Equal(decimal.NewFromInt(5000)), "income never resolves to a card")
	assert.Len(t, s.Transactions, 1, "the entry is still recorded")
}

func TestWalletResolution(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 500, core.Expense, "Travel", "wal-1"))
	w, _ := s.FindWallet("wal-1")
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(1500)))

	s = s.AddTransaction(tx("t2", 800, core.Income, "Gifts", "wal-1"))
	w, _ = s.FindWallet("wal-1")
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(2300)))
}

func TestDanglingSourceIsTolerated(t *testing.T) {
	s := seedStore()
	before, _ := s.FindAccount("acc-1")

	s = s.AddTransaction(tx("t1", 9999, core.Expense, "Other", "gone"))
	after, _ := s.FindAccount("acc-1")
	assert.True(t, after.Balance.Equal(before.Balance))
	assert.Len(t, s.Transactions, 1)

	s = s.DeleteTransaction("t1")
	assert.Len(t, s.Transactions, 0)
}

func TestUpdateTransactionAcrossSourcesSettlesBoth(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 2000, core.Expense, "Groceries", "acc-1"))

	moved := tx("t1", 2000, core.Expense, "Groceries", "card-1")
	s = s.UpdateTransaction(moved)

	acc, _ := s.FindAccount("acc-1")
	card, _ := s.FindCard("card-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(45000)), "old side restored")
	assert.True(t, card.Outstanding.Equal(decimal.NewFromInt(7000)), "new side applied")
}

func TestUpdateUnknownTransactionIsNoop(t *testing.T) {
	s := seedStore()
	out := s.UpdateTransaction(tx("ghost", 100, core.Expense, "Other", "acc-1"))
	acc, _ := out.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(45000)))
	assert.Len(t, out.Transactions, 0)
}

func TestMutationsDoNotAliasTheReceiver(t *testing.T) {
	s := seedStore()
	_ = s.AddTransaction(tx("t1", 10000, core.Income, "Salary", "acc-1"))

	acc, _ := s.FindAccount("acc-1")
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(45000)), "receiver snapshot must stay untouched")
	assert.Len(t, s.Transactions, 0)
}

func TestApplyLoanPaymentClampsAtPrincipal(t *testing.T) {
	s := New()
	s = s.AddLoan(core.Loan{
		ID:         "loan-1",
		Name:       "Car Loan",
		Principal:  decimal.NewFromInt(500000),
		PaidAmount: decimal.NewFromInt(480000),
	})

	s = s.ApplyLoanPayment("loan-1", decimal.NewFromInt(50000))
	l, ok := s.FindLoan("loan-1")
	require.True(t, ok)
	assert.True(t, l.PaidAmount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, l.Outstanding().IsZero())
}

func TestSetBudgetReplacesByCategoryPair(t *testing.T) {
	s := New()
	s = s.SetBudget(core.Budget{ID: "b1", Category: core.Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000)})
	s = s.SetBudget(core.Budget{ID: "b2", Category: core.Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(9000), RolloverEnabled: true})

	require.Len(t, s.Budgets, 1)
	assert.Equal(t, "b1", s.Budgets[0].ID, "existing id survives a replace")
	assert.True(t, s.Budgets[0].Limit.Equal(decimal.NewFromInt(9000)))
	assert.True(t, s.Budgets[0].RolloverEnabled)

	s = s.SetBudget(core.Budget{ID: "b3", Category: core.Business, SubCategory: "Groceries", Limit: decimal.NewFromInt(5000)})
	assert.Len(t, s.Budgets, 2, "same name under another category is a distinct budget")
}

func TestRenameSubCategoryCascades(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 1200, core.Expense, "Groceries", "acc-1"))
	s = s.AddTransaction(tx("t2", 700, core.Expense, "Dining", "acc-1"))
	s = s.SetBudget(core.Budget{ID: "b1", Category: core.Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000)})

	out, err := s.RenameSubCategory(core.Expense, core.Personal, "Groceries", "Food")
	require.NoError(t, err)

	assert.True(t, out.Metadata.HasSubCategory(core.Expense, core.Personal, "Food"))
	assert.False(t, out.Metadata.HasSubCategory(core.Expense, core.Personal, "Groceries"))

	t1, _ := out.FindTransaction("t1")
	t2, _ := out.FindTransaction("t2")
	assert.Equal(t, "Food", t1.SubCategory)
	assert.Equal(t, "Dining", t2.SubCategory, "unrelated entries untouched")
	assert.Equal(t, "Food", out.Budgets[0].SubCategory)
}

func TestRenameSubCategoryCollisionLeavesStoreUntouched(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 1200, core.Expense, "Groceries", "acc-1"))

	out, err := s.RenameSubCategory(core.Expense, core.Personal, "Groceries", "Dining")
	require.ErrorIs(t, err, core.ErrSubCategoryExists)

	t1, _ := out.FindTransaction("t1")
	assert.Equal(t, "Groceries", t1.SubCategory)
	assert.True(t, out.Metadata.HasSubCategory(core.Expense, core.Personal, "Groceries"))
}

func TestRenameUnknownSubCategory(t *testing.T) {
	s := New()
	_, err := s.RenameSubCategory(core.Expense, core.Personal, "Nope", "Food")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddSubCategory(t *testing.T) {
	s := New()
	out, err := s.AddSubCategory(core.Expense, core.Personal, "Pets")
	require.NoError(t, err)
	assert.True(t, out.Metadata.HasSubCategory(core.Expense, core.Personal, "Pets"))
	assert.False(t, s.Metadata.HasSubCategory(core.Expense, core.Personal, "Pets"), "receiver taxonomy unchanged")

	_, err = out.AddSubCategory(core.Expense, core.Personal, "Pets")
	assert.ErrorIs(t, err, core.ErrSubCategoryExists)

	_, err = s.AddSubCategory(core.Expense, core.Personal, "")
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestDeleteSubCategoryKeepsHistory(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 1200, core.Expense, "Groceries", "acc-1"))

	out, err := s.DeleteSubCategory(core.Expense, core.Personal, "Groceries")
	require.NoError(t, err)
	assert.False(t, out.Metadata.HasSubCategory(core.Expense, core.Personal, "Groceries"))

	t1, _ := out.FindTransaction("t1")
	assert.Equal(t, "Groceries", t1.SubCategory, "history keeps the retired name")
}

func TestDeleteSourceKeepsTransactions(t *testing.T) {
	s := seedStore()
	s = s.AddTransaction(tx("t1", 2000, core.Expense, "Groceries", "acc-1"))

	s = s.DeleteAccount("acc-1")
	_, ok := s.FindAccount("acc-1")
	assert.False(t, ok)
	assert.Len(t, s.Transactions, 1, "entries with a stale sourceId survive")

	// Reversal after the source is gone is a no-op on balances.
	s = s.DeleteTransaction("t1")
	assert.Len(t, s.Transactions, 0)
}

func TestWithDefaultsBackfillsOlderBlobs(t *testing.T) {
	var s Store // zero value, as decoded from a minimal blob
	out := s.WithDefaults()

	assert.NotNil(t, out.Transactions)
	assert.NotNil(t, out.Budgets)
	require.NotNil(t, out.NotificationPreferences)
	assert.True(t, out.NotificationPreferences.LowBalanceThreshold.Equal(decimal.NewFromInt(1000)))
	assert.NotEmpty(t, out.Metadata.SubCategories(core.Expense, core.Personal))
	assert.NotEmpty(t, out.Metadata.BankOptions)
}

func TestWithDefaultsBackfillsPartialMetadata(t *testing.T) {
	// A blob written before the taxonomy became fully editable can carry
	// some metadata fields and miss others.
	s := Store{Metadata: core.AppMetadata{
		ExpenseCategories: map[core.Category][]string{core.Personal: {"Groceries"}},
	}}
	out := s.WithDefaults()

	assert.NotEmpty(t, out.Metadata.BankOptions)
	assert.NotEmpty(t, out.Metadata.CardOptions)
	assert.NotEmpty(t, out.Metadata.WalletProviders)
	assert.NotEmpty(t, out.Metadata.IncomeCategories[core.Personal])
	assert.Equal(t, []string{"Groceries"}, out.Metadata.ExpenseCategories[core.Personal],
		"present fields stay as stored")
}
