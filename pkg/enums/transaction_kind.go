package enums

import "fmt"

// TransactionKind classifies a row in the unified ledger feed.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

var validTransactionKinds = []TransactionKind{
	TransactionKindIncome,
	TransactionKindExpense,
}

// String implements fmt.Stringer.
func (t TransactionKind) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionKind.
func (t TransactionKind) IsValid() bool {
	for _, candidate := range validTransactionKinds {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionKind converts the raw string to TransactionKind.
func ParseTransactionKind(value string) (TransactionKind, error) {
	for _, candidate := range validTransactionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction kind %q", value)
}
