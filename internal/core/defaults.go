package core

import "github.com/shopspring/decimal"

// Seed taxonomy used when a snapshot has no metadata (first run, or blobs
// written before the taxonomy became editable).
var (
	defaultBankOptions     = []string{"HDFC BANK", "SBI BANK", "AXIS BANK", "ICICI BANK", "Other Bank"}
	defaultCardOptions     = []string{"VISA INFINITE", "AMEX PLATINUM", "HDFC REGALIA", "SBI ELITE", "Other Card"}
	defaultWalletProviders = []string{"Paytm", "PhonePe", "Google Pay", "Amazon Pay", "MobiKwik", "ZestMoney", "Other"}

	defaultExpenseSubs = map[Category][]string{
		Personal: {"Groceries", "Rent", "Utilities", "Entertainment", "Healthcare", "Travel", "Dining", "Other"},
		Business: {"Inventory", "Salaries", "Marketing", "Software", "Office Rent", "Legal", "Travel", "Other"},
	}
	defaultIncomeSubs = map[Category][]string{
		Personal: {"Salary", "Freelance", "Dividends", "Rental Income", "Gifts", "Other"},
		Business: {"Sales", "Service Revenue", "Consulting", "Grants", "Interest", "Other"},
	}
)

// DefaultMetadata returns a fresh copy of the seed taxonomy.
func DefaultMetadata() AppMetadata {
	return AppMetadata{
		BankOptions:       append([]string(nil), defaultBankOptions...),
		CardOptions:       append([]string(nil), defaultCardOptions...),
		WalletProviders:   append([]string(nil), defaultWalletProviders...),
		IncomeCategories:  copySubs(defaultIncomeSubs),
		ExpenseCategories: copySubs(defaultExpenseSubs),
	}
}

// DefaultPreferences enables every alert family with a 1000 low-balance
// threshold, matching the documented backfill default.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		BudgetWarnings:      true,
		EMIReminders:        true,
		LowBalanceAlerts:    true,
		LowBalanceThreshold: decimal.NewFromInt(1000),
	}
}

// WithDefaults fills each taxonomy field a legacy blob left out,
// independently, leaving populated fields untouched.
func (m AppMetadata) WithDefaults() AppMetadata {
	if m.BankOptions == nil {
		m.BankOptions = append([]string(nil), defaultBankOptions...)
	}
	if m.CardOptions == nil {
		m.CardOptions = append([]string(nil), defaultCardOptions...)
	}
	if m.WalletProviders == nil {
		m.WalletProviders = append([]string(nil), defaultWalletProviders...)
	}
	if m.IncomeCategories == nil {
		m.IncomeCategories = copySubs(defaultIncomeSubs)
	}
	if m.ExpenseCategories == nil {
		m.ExpenseCategories = copySubs(defaultExpenseSubs)
	}
	return m
}

// Clone deep-copies the taxonomy so edits never leak across snapshots.
func (m AppMetadata) Clone() AppMetadata {
	return AppMetadata{
		BankOptions:       append([]string(nil), m.BankOptions...),
		CardOptions:       append([]string(nil), m.CardOptions...),
		WalletProviders:   append([]string(nil), m.WalletProviders...),
		IncomeCategories:  copySubs(m.IncomeCategories),
		ExpenseCategories: copySubs(m.ExpenseCategories),
	}
}

func copySubs(src map[Category][]string) map[Category][]string {
	out := make(map[Category][]string, len(src))
	for cat, subs := range src {
		out[cat] = append([]string(nil), subs...)
	}
	return out
}
