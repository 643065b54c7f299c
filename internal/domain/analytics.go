package domain

// AnalyticsResult is the payload returned for one account. JSON names and
// nesting are the compatibility surface consumed by the dashboard; monetary
// fields are fixed-precision decimal strings.
type AnalyticsResult struct {
	Address           string                `json:"address"`
	Balance           string                `json:"balance"`
	TotalTransactions int                   `json:"totalTransactions"`
	TransactionsSent  uint64                `json:"transactionsSent"`
	UniqueContracts   int                   `json:"uniqueContracts"`
	TotalVolume       string                `json:"totalVolume"`
	DaysActive        int                   `json:"daysActive"`
	FirstTransaction  string                `json:"firstTransaction"`
	LastTransaction   string                `json:"lastTransaction"`
	GasSavings        GasSavings            `json:"gasSavings"`
	UsdcStats         UsdcStats             `json:"usdcStats"`
	PrivacyStats      PrivacyStats          `json:"privacyStats"`
	ContractTypes     []CategoryCount       `json:"contractTypes"`
	ActivityTimeline  []TimelineEntry       `json:"activityTimeline"`
	Transactions      []TransactionRecord   `json:"transactions"`
	TokenTransfers    []TokenTransferRecord `json:"tokenTransfers"`
}

// GasSavings compares the observed gas spend against the same gas priced on
// the reference network.
type GasSavings struct {
	ArcGasUsed         string `json:"arcGasUsed"`
	EthereumEquivalent string `json:"ethereumEquivalent"`
	SavedUSD           string `json:"savedUSD"`
	SavingsPercentage  string `json:"savingsPercentage"`
}

// UsdcStats holds the settlement-currency figures for the account.
type UsdcStats struct {
	Balance      string `json:"balance"`
	TotalSpent   string `json:"totalSpent"`
	AveragePerTx string `json:"averagePerTx"`
	LargestTx    string `json:"largestTx"`
}

// PrivacyStats is a fixed-shape stub; no privacy detection is implemented.
type PrivacyStats struct {
	PrivateTransactions int `json:"privateTransactions"`
	PublicTransactions  int `json:"publicTransactions"`
	PrivacyScore        int `json:"privacyScore"`
	ShieldedContracts   int `json:"shieldedContracts"`
}

// CategoryCount is one entry of the per-category transaction tally.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TimelineEntry is the transaction count for one active calendar day.
type TimelineEntry struct {
	Date         string `json:"date"`
	Transactions int    `json:"transactions"`
}
