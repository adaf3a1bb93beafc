package finance

import (
	"sort"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PatientNotSet labels income rows whose patient reference no longer resolves.
const PatientNotSet = "patient not set"

// PaymentWithPatient pairs a payment row with its resolved patient name.
// Name is empty when the patient was deleted or never set.
type PaymentWithPatient struct {
	Payment     models.Payment
	PatientName string
}

// Transaction is one row of the unified ledger feed.
type Transaction struct {
	ID          uuid.UUID             `json:"id"`
	Kind        enums.TransactionKind `json:"kind"`
	Date        types.Date            `json:"date"`
	Amount      decimal.Decimal       `json:"amount"`
	PatientName string                `json:"patientName,omitempty"`
	Description string                `json:"description,omitempty"`
	Method      *enums.PaymentMethod  `json:"method,omitempty"`
	Category    *string               `json:"category,omitempty"`
}

// SkippedRecord reports a source row the reconciler refused to merge.
type SkippedRecord struct {
	ID     uuid.UUID             `json:"id"`
	Kind   enums.TransactionKind `json:"kind"`
	Reason string                `json:"reason"`
}

// Totals carries the exact decimal aggregates over the merged feed.
type Totals struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// MergeLedger folds payments and expenses into a single feed sorted by date
// descending. Ordering ties resolve deterministically with payments ahead of
// expenses. Rows with a negative amount are reported as skipped instead of
// aborting the merge.
func MergeLedger(payments []PaymentWithPatient, expenses []models.Expense) ([]Transaction, []SkippedRecord) {
	feed := make([]Transaction, 0, len(payments)+len(expenses))
	var skipped []SkippedRecord

	for _, entry := range payments {
		if entry.Payment.Amount.IsNegative() {
			skipped = append(skipped, SkippedRecord{
				ID:     entry.Payment.ID,
				Kind:   enums.TransactionKindIncome,
				Reason: "negative amount",
			})
			continue
		}
		feed = append(feed, paymentTransaction(entry))
	}
	for _, expense := range expenses {
		if expense.Amount.IsNegative() {
			skipped = append(skipped, SkippedRecord{
				ID:     expense.ID,
				Kind:   enums.TransactionKindExpense,
				Reason: "negative amount",
			})
			continue
		}
		feed = append(feed, expenseTransaction(expense))
	}

	// Stable sort preserves the payments-before-expenses input order on ties.
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	return feed, skipped
}

// ComputeTotals accumulates exact decimal totals over the mergeable rows.
// Skipped rows are excluded from both sides; balance is income minus expense.
func ComputeTotals(payments []PaymentWithPatient, expenses []models.Expense) (Totals, []SkippedRecord) {
	income := decimal.Zero
	outgo := decimal.Zero
	var skipped []SkippedRecord

	for _, entry := range payments {
		if entry.Payment.Amount.IsNegative() {
			skipped = append(skipped, SkippedRecord{
				ID:     entry.Payment.ID,
				Kind:   enums.TransactionKindIncome,
				Reason: "negative amount",
			})
			continue
		}
		income = income.Add(entry.Payment.Amount)
	}
	for _, expense := range expenses {
		if expense.Amount.IsNegative() {
			skipped = append(skipped, SkippedRecord{
				ID:     expense.ID,
				Kind:   enums.TransactionKindExpense,
				Reason: "negative amount",
			})
			continue
		}
		outgo = outgo.Add(expense.Amount)
	}

	return Totals{
		TotalIncome:  income,
		TotalExpense: outgo,
		Balance:      income.Sub(outgo),
	}, skipped
}

func paymentTransaction(entry PaymentWithPatient) Transaction {
	name := entry.PatientName
	if name == "" {
		name = PatientNotSet
	}
	method := entry.Payment.Method
	tx := Transaction{
		ID:          entry.Payment.ID,
		Kind:        enums.TransactionKindIncome,
		Date:        entry.Payment.PaidAt,
		Amount:      entry.Payment.Amount,
		PatientName: name,
		Method:      &method,
	}
	if entry.Payment.Description != nil {
		tx.Description = *entry.Payment.Description
	}
	return tx
}

func expenseTransaction(expense models.Expense) Transaction {
	return Transaction{
		ID:          expense.ID,
		Kind:        enums.TransactionKindExpense,
		Date:        expense.IncurredAt,
		Amount:      expense.Amount,
		Description: expense.Description,
		Category:    expense.Category,
	}
}
