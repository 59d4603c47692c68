// Package services orchestrates ledger mutations: validate, apply,
// persist, then announce. The in-memory store is the source of truth;
// SQLite holds its snapshot so a restart resumes where the user left off.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/insights"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// SnapshotRepository persists and restores full ledger snapshots.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, key string, s ledger.Store) error
	LoadSnapshot(ctx context.Context, key string) (ledger.Store, error)
}

// InsightGenerator produces advisory items from a snapshot.
type InsightGenerator interface {
	Generate(ctx context.Context, s ledger.Store) []insights.Insight
}

// FinanceService guards one ledger store behind a mutex and runs every
// mutation through the same pipeline: validate, apply to a new snapshot,
// persist, swap, publish. writeMu serializes whole mutations so two
// concurrent writes never clone the same base snapshot; mu only guards
// the swap, keeping reads cheap.
type FinanceService struct {
	mu      sync.RWMutex
	store   ledger.Store
	writeMu sync.Mutex

	repo        SnapshotRepository
	events      *events.Client
	advisor     InsightGenerator
	snapshotKey string
	logger      *log.Logger
	now         func() time.Time

	insightsMu     sync.Mutex
	insightsCache  []insights.Insight
	insightsCancel context.CancelFunc
}

// Option tweaks service construction.
type Option func(*FinanceService)

// WithClock overrides the time source. Used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

// WithAdvisor wires an insight generator. Without one, Insights returns
// an empty list and refreshes are skipped.
func WithAdvisor(a InsightGenerator) Option {
	return func(s *FinanceService) { s.advisor = a }
}

// WithEvents wires a mutation-event publisher.
func WithEvents(c *events.Client) Option {
	return func(s *FinanceService) { s.events = c }
}

func NewFinanceService(repo SnapshotRepository, snapshotKey string, logger *log.Logger, opts ...Option) *FinanceService {
	s := &FinanceService{
		store:       ledger.New(),
		repo:        repo,
		snapshotKey: snapshotKey,
		logger:      logger.WithComponent(log.ComponentFinance),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted snapshot. A key that was never saved
// starts from the default empty store.
func (s *FinanceService) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	store, err := s.repo.LoadSnapshot(ctx, s.snapshotKey)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		s.logger.InfoContext(ctx, "no snapshot found, starting fresh", log.FieldSnapshotKey, s.snapshotKey)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "snapshot loaded",
		log.FieldSnapshotKey, s.snapshotKey,
		"transactions", len(store.Transactions))
	return nil
}

// Snapshot returns the current store. The store is value-semantic, so
// callers can derive views without holding any lock.
func (s *FinanceService) Snapshot() ledger.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// commit persists next and, on success, makes it current. The mutation
// event is published after the swap; publish failures are logged and
// swallowed because the audit trail is best-effort.
func (s *FinanceService) commit(ctx context.Context, next ledger.Store, event *events.MutationEvent) error {
	if err := s.repo.SaveSnapshot(ctx, s.snapshotKey, next); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	s.mu.Lock()
	s.store = next
	s.mu.Unlock()

	if err := s.events.PublishMutation(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish mutation event",
			log.FieldError, err,
			log.FieldEntity, event.Entity,
			log.FieldEntityID, event.EntityID)
	}
	return nil
}

// --- transactions ---

func (s *FinanceService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if t.ID == "" {
		t.ID = core.NewID()
	}
	cur := s.Snapshot()
	if err := t.Validate(cur.Metadata); err != nil {
		return core.Transaction{}, err
	}
	if err := s.commit(ctx, cur.AddTransaction(t), events.NewMutationEvent(events.EntityTransaction, events.OpCreate, t.ID)); err != nil {
		return core.Transaction{}, err
	}
	s.logger.InfoContext(ctx, "transaction added",
		log.FieldEntityID, t.ID,
		log.FieldCategory, string(t.Category),
		log.FieldSubCategory, t.SubCategory)
	return t, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindTransaction(t.ID); !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, ledger.ErrNotFound)
	}
	if err := t.Validate(cur.Metadata); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateTransaction(t), events.NewMutationEvent(events.EntityTransaction, events.OpUpdate, t.ID))
}

// DeleteTransaction removes a ledger entry. Unknown ids succeed so the
// operation is safe to replay.
func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindTransaction(id); !ok {
		return nil
	}
	return s.commit(ctx, cur.DeleteTransaction(id), events.NewMutationEvent(events.EntityTransaction, events.OpDelete, id))
}

// --- money sources ---

func (s *FinanceService) AddAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if a.ID == "" {
		a.ID = core.NewID()
	}
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}
	if err := s.commit(ctx, s.Snapshot().AddAccount(a), events.NewMutationEvent(events.EntityAccount, events.OpCreate, a.ID)); err != nil {
		return core.BankAccount{}, err
	}
	return a, nil
}

func (s *FinanceService) UpdateAccount(ctx context.Context, a core.BankAccount) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindAccount(a.ID); !ok {
		return fmt.Errorf("account %s: %w", a.ID, ledger.ErrNotFound)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateAccount(a), events.NewMutationEvent(events.EntityAccount, events.OpUpdate, a.ID))
}

func (s *FinanceService) DeleteAccount(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteAccount(id), events.NewMutationEvent(events.EntityAccount, events.OpDelete, id))
}

func (s *FinanceService) AddCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if c.ID == "" {
		c.ID = core.NewID()
	}
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	if err := s.commit(ctx, s.Snapshot().AddCard(c), events.NewMutationEvent(events.EntityCard, events.OpCreate, c.ID)); err != nil {
		return core.CreditCard{}, err
	}
	return c, nil
}

func (s *FinanceService) UpdateCard(ctx context.Context, c core.CreditCard) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindCard(c.ID); !ok {
		return fmt.Errorf("card %s: %w", c.ID, ledger.ErrNotFound)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateCard(c), events.NewMutationEvent(events.EntityCard, events.OpUpdate, c.ID))
}

func (s *FinanceService) DeleteCard(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteCard(id), events.NewMutationEvent(events.EntityCard, events.OpDelete, id))
}

func (s *FinanceService) AddWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if w.ID == "" {
		w.ID = core.NewID()
	}
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if err := s.commit(ctx, s.Snapshot().AddWallet(w), events.NewMutationEvent(events.EntityWallet, events.OpCreate, w.ID)); err != nil {
		return core.Wallet{}, err
	}
	return w, nil
}

func (s *FinanceService) UpdateWallet(ctx context.Context, w core.Wallet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindWallet(w.ID); !ok {
		return fmt.Errorf("wallet %s: %w", w.ID, ledger.ErrNotFound)
	}
	if err := w.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateWallet(w), events.NewMutationEvent(events.EntityWallet, events.OpUpdate, w.ID))
}

func (s *FinanceService) DeleteWallet(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteWallet(id), events.NewMutationEvent(events.EntityWallet, events.OpDelete, id))
}

// --- loans ---

func (s *FinanceService) AddLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if l.ID == "" {
		l.ID = core.NewID()
	}
	if err := l.Validate(); err != nil {
		return core.Loan{}, err
	}
	if err := s.commit(ctx, s.Snapshot().AddLoan(l), events.NewMutationEvent(events.EntityLoan, events.OpCreate, l.ID)); err != nil {
		return core.Loan{}, err
	}
	return l, nil
}

func (s *FinanceService) UpdateLoan(ctx context.Context, l core.Loan) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindLoan(l.ID); !ok {
		return fmt.Errorf("loan %s: %w", l.ID, ledger.ErrNotFound)
	}
	if err := l.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateLoan(l), events.NewMutationEvent(events.EntityLoan, events.OpUpdate, l.ID))
}

func (s *FinanceService) DeleteLoan(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteLoan(id), events.NewMutationEvent(events.EntityLoan, events.OpDelete, id))
}

// RecordLoanPayment credits amount against the loan, clamped at the
// principal.
func (s *FinanceService) RecordLoanPayment(ctx context.Context, id string, amount decimal.Decimal) (core.Loan, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if _, ok := cur.FindLoan(id); !ok {
		return core.Loan{}, fmt.Errorf("loan %s: %w", id, ledger.ErrNotFound)
	}
	if !amount.IsPositive() {
		return core.Loan{}, core.ErrInvalidAmount
	}
	next := cur.ApplyLoanPayment(id, amount)
	if err := s.commit(ctx, next, events.NewMutationEvent(events.EntityLoan, events.OpUpdate, id)); err != nil {
		return core.Loan{}, err
	}
	loan, _ := next.FindLoan(id)
	s.logger.InfoContext(ctx, "loan payment recorded",
		log.FieldEntityID, id,
		log.FieldAmount, amount.String())
	return loan, nil
}

// LoanProjection returns the EMI and payoff projection for a loan.
func (s *FinanceService) LoanProjection(id string) (core.Loan, float64, core.PayoffProjection, error) {
	loan, ok := s.Snapshot().FindLoan(id)
	if !ok {
		return core.Loan{}, 0, core.PayoffProjection{}, fmt.Errorf("loan %s: %w", id, ledger.ErrNotFound)
	}
	return loan, core.LoanEMI(loan), core.LoanProjection(loan), nil
}

// --- investments ---

func (s *FinanceService) AddInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if inv.ID == "" {
		inv.ID = core.NewID()
	}
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	if err := s.commit(ctx, s.Snapshot().AddInvestment(inv), events.NewMutationEvent(events.EntityInvestment, events.OpCreate, inv.ID)); err != nil {
		return core.Investment{}, err
	}
	return inv, nil
}

func (s *FinanceService) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	found := false
	for _, existing := range cur.Investments {
		if existing.ID == inv.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("investment %s: %w", inv.ID, ledger.ErrNotFound)
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, cur.UpdateInvestment(inv), events.NewMutationEvent(events.EntityInvestment, events.OpUpdate, inv.ID))
}

func (s *FinanceService) DeleteInvestment(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteInvestment(id), events.NewMutationEvent(events.EntityInvestment, events.OpDelete, id))
}

// --- budgets ---

// SetBudget creates or replaces the budget for the (category,
// subCategory) pair.
func (s *FinanceService) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if b.ID == "" {
		b.ID = core.NewID()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	next := s.Snapshot().SetBudget(b)
	if err := s.commit(ctx, next, events.NewMutationEvent(events.EntityBudget, events.OpUpdate, b.ID)); err != nil {
		return core.Budget{}, err
	}
	for _, stored := range next.Budgets {
		if stored.Category == b.Category && stored.SubCategory == b.SubCategory {
			return stored, nil
		}
	}
	return b, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().DeleteBudget(id), events.NewMutationEvent(events.EntityBudget, events.OpDelete, id))
}

// BudgetPerformance evaluates every budget against the current month.
func (s *FinanceService) BudgetPerformance() []core.BudgetPerformance {
	cur := s.Snapshot()
	now := s.now()
	out := make([]core.BudgetPerformance, 0, len(cur.Budgets))
	for _, b := range cur.Budgets {
		out = append(out, core.EvaluateBudget(b, cur.Transactions, now))
	}
	return out
}

// --- taxonomy and settings ---

func (s *FinanceService) AddSubCategory(ctx context.Context, tt core.TransactionType, cat core.Category, name string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.Snapshot().AddSubCategory(tt, cat, name)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, events.NewMutationEvent(events.EntityTaxonomy, events.OpCreate, name))
}

func (s *FinanceService) RenameSubCategory(ctx context.Context, tt core.TransactionType, cat core.Category, from, to string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.Snapshot().RenameSubCategory(tt, cat, from, to)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, events.NewMutationEvent(events.EntityTaxonomy, events.OpUpdate, to))
}

func (s *FinanceService) DeleteSubCategory(ctx context.Context, tt core.TransactionType, cat core.Category, name string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.Snapshot().DeleteSubCategory(tt, cat, name)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, events.NewMutationEvent(events.EntityTaxonomy, events.OpDelete, name))
}

func (s *FinanceService) UpdatePreferences(ctx context.Context, p core.NotificationPreferences) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.LowBalanceThreshold.IsNegative() {
		return core.ErrInvalidAmount
	}
	return s.commit(ctx, s.Snapshot().SetPreferences(p), events.NewMutationEvent(events.EntityTaxonomy, events.OpUpdate, "preferences"))
}

func (s *FinanceService) UpdateProfile(ctx context.Context, p core.UserProfile) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.commit(ctx, s.Snapshot().SetProfile(p), events.NewMutationEvent(events.EntityTaxonomy, events.OpUpdate, "profile"))
}

// --- derived views ---

// DashboardSummary is the headline view: flows for the window, the net
// position, and obligations.
type DashboardSummary struct {
	Window          core.Window            `json:"window"`
	Income          core.FlowSummary       `json:"income"`
	Expense         core.FlowSummary       `json:"expense"`
	NetLiquidity    decimal.Decimal        `json:"netLiquidity"`
	Investments     core.InvestmentSummary `json:"investments"`
	LoanOutstanding decimal.Decimal        `json:"loanOutstanding"`
	Cards           []CardOverview         `json:"cards"`
}

// CardOverview surfaces per-card utilization alongside the headline
// numbers.
type CardOverview struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Limit       decimal.Decimal `json:"limit"`
	Utilization float64         `json:"utilization"`
}

func (s *FinanceService) DashboardSummary(w core.Window) DashboardSummary {
	cur := s.Snapshot()
	windowed := core.FilterByWindow(cur.Transactions, w, s.now())

	cards := make([]CardOverview, 0, len(cur.CreditCards))
	for _, c := range cur.CreditCards {
		cards = append(cards, CardOverview{
			ID:          c.ID,
			Name:        c.Name,
			Outstanding: c.Outstanding,
			Limit:       c.Limit,
			Utilization: c.Utilization(),
		})
	}

	return DashboardSummary{
		Window:          w,
		Income:          core.SummarizeFlow(windowed, core.Income),
		Expense:         core.SummarizeFlow(windowed, core.Expense),
		NetLiquidity:    core.NetLiquidity(cur.Accounts, cur.Wallets, cur.Investments, cur.Loans, cur.CreditCards),
		Investments:     core.SummarizeInvestments(cur.Investments),
		LoanOutstanding: core.TotalLoanOutstanding(cur.Loans),
		Cards:           cards,
	}
}

func (s *FinanceService) ExpenseBreakdown(w core.Window) []core.CategorySlice {
	cur := s.Snapshot()
	return core.ExpenseBreakdown(cur.Transactions, w, s.now())
}

// Trend returns daily buckets for 7 or 30 days, or monthly buckets for
// 3, 6, or 12 months.
func (s *FinanceService) Trend(unit string, count int) ([]core.TrendBucket, error) {
	cur := s.Snapshot()
	switch unit {
	case "day":
		if count != 7 && count != 30 {
			return nil, fmt.Errorf("unsupported daily trend span %d", count)
		}
		return core.DailyTrend(cur.Transactions, count, s.now()), nil
	case "month":
		if count != 3 && count != 6 && count != 12 {
			return nil, fmt.Errorf("unsupported monthly trend span %d", count)
		}
		return core.MonthlyTrend(cur.Transactions, count, s.now()), nil
	}
	return nil, fmt.Errorf("unsupported trend unit %q", unit)
}

// Notifications recomputes the alert list from current state.
func (s *FinanceService) Notifications() []core.Notification {
	cur := s.Snapshot()
	return core.EvaluateNotifications(cur.Loans, cur.Accounts, cur.Budgets, cur.Transactions, cur.Preferences(), s.now())
}

// --- insights ---

// Insights returns the cached advisory list.
func (s *FinanceService) Insights() []insights.Insight {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()
	return s.insightsCache
}

// RefreshInsights regenerates advice in the background. A refresh that
// starts while another is in flight cancels it: last request wins.
func (s *FinanceService) RefreshInsights(ctx context.Context) {
	if s.advisor == nil {
		return
	}

	s.insightsMu.Lock()
	if s.insightsCancel != nil {
		s.insightsCancel()
	}
	genCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.insightsCancel = cancel
	s.insightsMu.Unlock()

	snapshot := s.Snapshot()
	go func() {
		defer cancel()
		generated := s.advisor.Generate(genCtx, snapshot)
		if genCtx.Err() != nil {
			return // superseded, drop the result
		}
		s.insightsMu.Lock()
		s.insightsCache = generated
		s.insightsMu.Unlock()
	}()
}
