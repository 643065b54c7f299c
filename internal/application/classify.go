package application

import (
	"strings"

	"arclens/internal/domain"
)

// Category is the semantic bucket a transaction falls into, keyed off the
// 4-byte function selector of its call data.
type Category string

const (
	CategoryTransfer        Category = "Transfer"
	CategoryTokenTransfer   Category = "Token Transfer"
	CategoryApproval        Category = "Approval"
	CategoryDexSwap         Category = "DEX Swap"
	CategoryDepositWithdraw Category = "Deposit/Withdraw"
)

// selectorCategories maps known function selectors to categories. The
// selectors are disjoint, so lookup order never matters.
var selectorCategories = map[string]Category{
	"0xa9059cbb": CategoryTokenTransfer,   // transfer(address,uint256)
	"0x23b872dd": CategoryTokenTransfer,   // transferFrom(address,address,uint256)
	"0x095ea7b3": CategoryApproval,        // approve(address,uint256)
	"0x38ed1739": CategoryDexSwap,         // swapExactTokensForTokens
	"0x7ff36ab5": CategoryDexSwap,         // swapExactETHForTokens
	"0xe8e33700": CategoryDepositWithdraw, // addLiquidity
	"0x2e1a7d4d": CategoryDepositWithdraw, // withdraw(uint256)
}

// Classify buckets a transaction by its function selector. Records with an
// unknown or absent selector fall back to plain Transfer.
func Classify(record domain.TransactionRecord) Category {
	selector := extractSelector(record)
	if category, ok := selectorCategories[selector]; ok {
		return category
	}
	return CategoryTransfer
}

// extractSelector normalizes the two upstream encodings of the selector:
// an explicit methodId field when present, otherwise the leading 4 bytes
// of the call data. Hex digits are lower-cased before matching.
func extractSelector(record domain.TransactionRecord) string {
	if record.MethodID != "" {
		return strings.ToLower(record.MethodID)
	}
	if len(record.Input) >= 10 {
		return strings.ToLower(record.Input[:10])
	}
	return ""
}
