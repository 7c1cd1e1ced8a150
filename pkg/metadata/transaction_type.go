package metadata

// TransactionType is the kind of a stock log entry.
type TransactionType string

const (
	TransactionRestock TransactionType = "restock"
	TransactionUsage   TransactionType = "usage"
)

// Signed returns the quantity delta an entry of this type applies.
func (t TransactionType) Signed(quantity int) int {
	if t == TransactionUsage {
		return -quantity
	}
	return quantity
}

func (t TransactionType) IsValid() bool {
	return t == TransactionRestock || t == TransactionUsage
}
