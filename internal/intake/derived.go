package intake

// FinanceAmount is the purchase price less the down payment, never negative.
// It is nil unless both inputs are known.
func FinanceAmount(purchasePrice, downPayment *float64) *float64 {
	if purchasePrice == nil || downPayment == nil {
		return nil
	}
	amount := max(*purchasePrice-*downPayment, 0)
	return &amount
}

// NetWorth is total assets less total liabilities. It may be negative.
func NetWorth(assets, liabilities *float64) *float64 {
	if assets == nil || liabilities == nil {
		return nil
	}
	net := *assets - *liabilities
	return &net
}
