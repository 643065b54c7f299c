package application

import (
	"math/big"

	"arclens/internal/domain"
)

// BuildReport combines the normalized balance, the account nonce, and the
// derived aggregates into the response payload. Shape and field formatting
// follow the published contract; no logic beyond assembly lives here.
func BuildReport(address string, balance *big.Int, nonce uint64, txs []domain.TransactionRecord, transfers []domain.TokenTransferRecord, cfg EstimateConfig) domain.AnalyticsResult {
	agg := Aggregate(txs)

	balanceStr := FormatUnits(balance, 4)
	totalSpent := FormatUnits(agg.GasCost, 4)

	averagePerTx := "0.0000"
	if agg.TotalTransactions > 0 {
		perTx := new(big.Rat).SetFrac(agg.GasCost, new(big.Int).Mul(nativeScale, big.NewInt(int64(agg.TotalTransactions))))
		averagePerTx = FormatRat(perTx, 4)
	}

	if txs == nil {
		txs = []domain.TransactionRecord{}
	}
	if transfers == nil {
		transfers = []domain.TokenTransferRecord{}
	}

	return domain.AnalyticsResult{
		Address:           address,
		Balance:           balanceStr,
		TotalTransactions: agg.TotalTransactions,
		TransactionsSent:  nonce,
		UniqueContracts:   agg.UniqueContracts,
		TotalVolume:       FormatUnits(agg.Volume, 4),
		DaysActive:        agg.DaysActive,
		FirstTransaction:  agg.FirstDate,
		LastTransaction:   agg.LastDate,
		GasSavings:        EstimateSavings(agg, cfg),
		UsdcStats: domain.UsdcStats{
			Balance:      balanceStr,
			TotalSpent:   totalSpent,
			AveragePerTx: averagePerTx,
			LargestTx:    FormatUnits(agg.LargestValue, 4),
		},
		// Fixed-shape stub; no privacy detection is implemented.
		PrivacyStats: domain.PrivacyStats{
			PublicTransactions: agg.TotalTransactions,
		},
		ContractTypes:    agg.Categories,
		ActivityTimeline: agg.Timeline,
		Transactions:     txs,
		TokenTransfers:   transfers,
	}
}
