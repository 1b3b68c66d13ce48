package intake

import "github.com/bjarke-xyz/mortgage-intake/internal/domain"

// CompactConsent keeps the signing names and dates from the raw consent
// fields. Consent text and uploaded signature files are dropped.
func CompactConsent(consent domain.Bucket) domain.Bucket {
	if consent == nil {
		return nil
	}
	applicantName := consent["sign-app-name"]
	return prune(domain.Bucket{
		"applicant_name":   applicantName,
		"applicant_date":   consent["sign-app-date"],
		"coapplicant_name": consent["sign-co-name"],
		"coapplicant_date": consent["sign-co-date"],
		"signature":        applicantName,
	})
}

// CompactFinancing coerces the financing fields. The finance amount is
// recomputed from price and down payment whenever both are present; the
// submitted amount is only used when they are not.
func CompactFinancing(fin domain.Bucket) domain.Bucket {
	if fin == nil {
		return nil
	}
	purchasePrice := numberPtr(fin["fin-purchase-price"])
	downPayment := numberPtr(fin["fin-down-payment"])
	financeAmount := FinanceAmount(purchasePrice, downPayment)
	if financeAmount == nil {
		financeAmount = numberPtr(fin["fin-finance-amount"])
	}

	return prune(domain.Bucket{
		"purchase_price":       floatOrNil(purchasePrice),
		"down_payment":         floatOrNil(downPayment),
		"finance_amount":       floatOrNil(financeAmount),
		"closing_date":         StringOrNil(fin["fin-closing-date"]),
		"property_address":     StringOrNil(fin["fin-property-address"]),
		"property_city":        StringOrNil(fin["fin-property-city"]),
		"property_province":    StringOrNil(fin["fin-property-province"]),
		"property_postal_code": StringOrNil(fin["fin-property-postal-code"]),
	})
}

// CompleteTotals fills in nw-net from nw-assets and nw-liabs when the client
// left it out. The input bucket is not modified.
func CompleteTotals(totals domain.Bucket) domain.Bucket {
	if totals == nil || totals["nw-net"] != nil {
		return totals
	}
	net := NetWorth(numberPtr(totals["nw-assets"]), numberPtr(totals["nw-liabs"]))
	if net == nil {
		return totals
	}
	out := make(domain.Bucket, len(totals)+1)
	for k, v := range totals {
		out[k] = v
	}
	out["nw-net"] = *net
	return out
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
