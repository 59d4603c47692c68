package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Personal Category = "Personal"
	Business Category = "Business"

	ProviderUPI    WalletProvider = "upi"
	ProviderWallet WalletProvider = "wallet"
	ProviderOther  WalletProvider = "other"
)

type (
	TransactionType string
	Category        string
	WalletProvider  string

	// Transaction is a single ledger entry. SourceID and LoanID are weak
	// references: they may point at entities that no longer exist.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
		SubCategory string          `json:"subCategory"`
		Description string          `json:"description"`
		Date        string          `json:"date"` // ISO calendar date (2006-01-02)
		SourceID    string          `json:"sourceId,omitempty"`
		LoanID      string          `json:"loanId,omitempty"`
	}

	BankAccount struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Nickname string          `json:"nickname,omitempty"`
		Balance  decimal.Decimal `json:"balance"`
		Type     string          `json:"type"` // always "bank"
	}

	CreditCard struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Nickname    string          `json:"nickname,omitempty"`
		Limit       decimal.Decimal `json:"limit"`
		Outstanding decimal.Decimal `json:"outstanding"`
		DueDate     int             `json:"dueDate"` // day of month, 1-31
		Type        string          `json:"type"`    // always "card"
	}

	Wallet struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Nickname string          `json:"nickname,omitempty"`
		Balance  decimal.Decimal `json:"balance"`
		Type     string          `json:"type"` // always "wallet"
		Provider WalletProvider  `json:"provider"`
	}

	Loan struct {
		ID               string          `json:"id"`
		Name             string          `json:"name"`
		Principal        decimal.Decimal `json:"principal"`
		InterestRate     float64         `json:"interestRate"` // annual percent
		Tenure           int             `json:"tenure"`       // months
		PaidAmount       decimal.Decimal `json:"paidAmount"`
		StartDate        string          `json:"startDate"`
		ReminderDay      int             `json:"reminderDay,omitempty"`
		RemindersEnabled bool            `json:"remindersEnabled,omitempty"`
	}

	Investment struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		BuyPrice     decimal.Decimal `json:"buyPrice"`
		CurrentPrice decimal.Decimal `json:"currentPrice"`
		Quantity     decimal.Decimal `json:"quantity"`
		Date         string          `json:"date"`
	}

	// Budget caps current-month spend for one (category, subCategory) pair.
	Budget struct {
		ID              string          `json:"id"`
		Category        Category        `json:"category"`
		SubCategory     string          `json:"subCategory"`
		Limit           decimal.Decimal `json:"limit"`
		RolloverEnabled bool            `json:"rolloverEnabled,omitempty"`
	}

	// AppMetadata is the mutable taxonomy: source-name option lists and
	// the per-category subcategory lists transactions validate against.
	AppMetadata struct {
		BankOptions       []string              `json:"bankOptions"`
		CardOptions       []string              `json:"cardOptions"`
		WalletProviders   []string              `json:"walletProviders"`
		IncomeCategories  map[Category][]string `json:"incomeCategories"`
		ExpenseCategories map[Category][]string `json:"expenseCategories"`
	}

	NotificationPreferences struct {
		BudgetWarnings      bool            `json:"budgetWarnings"`
		EMIReminders        bool            `json:"emiReminders"`
		LowBalanceAlerts    bool            `json:"lowBalanceAlerts"`
		LowBalanceThreshold decimal.Decimal `json:"lowBalanceThreshold"`
	}

	UserProfile struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		PhotoURL string `json:"photoUrl"`
	}
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrUnknownSubCategory = errors.New("unknown subcategory")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidTenure      = errors.New("invalid tenure")
	ErrInvalidRate        = errors.New("invalid interest rate")
	ErrInvalidLimit       = errors.New("invalid limit")
	ErrInvalidDueDate     = errors.New("invalid due date")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidProvider    = errors.New("invalid wallet provider")
	ErrSubCategoryExists  = errors.New("subcategory already exists")
)

// ParseDate parses an ISO calendar date. The bool is false for anything
// that is not a valid yyyy-mm-dd string.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as the ISO calendar date used throughout the ledger.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// When returns the transaction's calendar date. Stored transactions always
// carry a valid date; the bool guards derived computations against blobs
// written by older versions.
func (t Transaction) When() (time.Time, bool) {
	return ParseDate(t.Date)
}

func (c Category) Valid() bool {
	return c == Personal || c == Business
}

// SubCategories returns the taxonomy list for the given flow and category.
func (m AppMetadata) SubCategories(tt TransactionType, cat Category) []string {
	switch tt {
	case Income:
		return m.IncomeCategories[cat]
	case Expense:
		return m.ExpenseCategories[cat]
	}
	return nil
}

// HasSubCategory reports whether sub exists in the taxonomy for tt/cat.
func (m AppMetadata) HasSubCategory(tt TransactionType, cat Category, sub string) bool {
	for _, s := range m.SubCategories(tt, cat) {
		if s == sub {
			return true
		}
	}
	return false
}

// Validate checks a transaction against the current taxonomy. Amounts must
// be strictly positive; the compensating sign is derived from Type.
func (t Transaction) Validate(meta AppMetadata) error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if !meta.HasSubCategory(t.Type, t.Category, t.SubCategory) {
		return ErrUnknownSubCategory
	}
	if _, ok := ParseDate(t.Date); !ok {
		return ErrInvalidDate
	}
	if t.LoanID != "" && t.Type != Income {
		return ErrInvalidType // disbursements are income-only
	}
	return nil
}

func (a BankAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Limit.IsPositive() {
		return ErrInvalidLimit
	}
	if c.DueDate < 1 || c.DueDate > 31 {
		return ErrInvalidDueDate
	}
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	switch w.Provider {
	case ProviderUPI, ProviderWallet, ProviderOther:
		return nil
	}
	return ErrInvalidProvider
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if !l.Principal.IsPositive() {
		return ErrInvalidAmount
	}
	if l.InterestRate < 0 {
		return ErrInvalidRate
	}
	if l.Tenure <= 0 {
		return ErrInvalidTenure
	}
	if l.PaidAmount.IsNegative() || l.PaidAmount.GreaterThan(l.Principal) {
		return ErrInvalidAmount
	}
	if _, ok := ParseDate(l.StartDate); !ok {
		return ErrInvalidDate
	}
	if l.ReminderDay != 0 && (l.ReminderDay < 1 || l.ReminderDay > 31) {
		return ErrInvalidDueDate
	}
	return nil
}

// Outstanding is the unpaid part of the principal.
func (l Loan) Outstanding() decimal.Decimal {
	return l.Principal.Sub(l.PaidAmount)
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.BuyPrice.IsNegative() || i.CurrentPrice.IsNegative() {
		return ErrInvalidAmount
	}
	if !i.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if _, ok := ParseDate(i.Date); !ok {
		return ErrInvalidDate
	}
	return nil
}

// Value is quantity at the current per-unit price.
func (i Investment) Value() decimal.Decimal {
	return i.CurrentPrice.Mul(i.Quantity)
}

// Cost is quantity at the per-unit buy price.
func (i Investment) Cost() decimal.Decimal {
	return i.BuyPrice.Mul(i.Quantity)
}

func (b Budget) Validate() error {
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(b.SubCategory) == "" {
		return ErrUnknownSubCategory
	}
	if b.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	return nil
}

// Utilization is the card's outstanding as a percentage of its limit.
func (c CreditCard) Utilization() float64 {
	if !c.Limit.IsPositive() {
		return 0
	}
	pct, _ := c.Outstanding.Div(c.Limit).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
