package application

import (
	"math/big"

	"arclens/internal/domain"
)

// Reference-network defaults used when no overrides are configured. The
// comparison is an illustrative estimate, not a live market conversion.
const (
	DefaultReferenceGasPriceGwei = 30
	DefaultReferenceUsdPerUnit   = 3000
)

// EstimateConfig carries the reference-network assumptions for the gas
// cost comparison so tests and deployments can swap them without touching
// the aggregation logic.
type EstimateConfig struct {
	// ReferenceGasPriceWei prices one unit of gas on the reference
	// network, in base units (wei) per gas.
	ReferenceGasPriceWei *big.Int
	// ReferenceUsdPerUnit converts one display unit of the reference
	// currency to USD.
	ReferenceUsdPerUnit int64
}

// DefaultEstimateConfig returns the stock 30 gwei / 3000 USD assumptions.
func DefaultEstimateConfig() EstimateConfig {
	return EstimateConfig{
		ReferenceGasPriceWei: gweiToWei(DefaultReferenceGasPriceGwei),
		ReferenceUsdPerUnit:  DefaultReferenceUsdPerUnit,
	}
}

func gweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), big.NewInt(1_000_000_000))
}

// EstimateSavings prices the observed gas usage on the reference network
// and expresses the difference as absolute USD savings and a percentage.
//
// The local gas spend is treated as already denominated in the settlement
// currency; gas on this chain settles in the dollar-pegged native unit.
func EstimateSavings(agg Aggregates, cfg EstimateConfig) domain.GasSavings {
	if cfg.ReferenceGasPriceWei == nil {
		cfg.ReferenceGasPriceWei = gweiToWei(DefaultReferenceGasPriceGwei)
	}
	if cfg.ReferenceUsdPerUnit == 0 {
		cfg.ReferenceUsdPerUnit = DefaultReferenceUsdPerUnit
	}

	actualCost := new(big.Rat).SetFrac(agg.GasCost, nativeScale)

	referenceNative := new(big.Int).Mul(agg.GasUsed, cfg.ReferenceGasPriceWei)
	referenceUsd := new(big.Rat).SetFrac(referenceNative, nativeScale)
	referenceUsd.Mul(referenceUsd, new(big.Rat).SetInt64(cfg.ReferenceUsdPerUnit))

	saved := new(big.Rat).Sub(referenceUsd, actualCost)
	if saved.Sign() < 0 {
		saved.SetInt64(0)
	}

	percentage := new(big.Rat)
	if referenceUsd.Sign() > 0 {
		percentage.Quo(saved, referenceUsd)
		percentage.Mul(percentage, new(big.Rat).SetInt64(100))
	}

	return domain.GasSavings{
		ArcGasUsed:         FormatRat(actualCost, 4),
		EthereumEquivalent: FormatRat(referenceUsd, 4),
		SavedUSD:           FormatRat(saved, 2),
		SavingsPercentage:  FormatRat(percentage, 1),
	}
}
