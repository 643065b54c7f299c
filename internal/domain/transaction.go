package domain

// TransactionRecord is a single history entry as returned by the explorer
// API. Field names follow the Etherscan-compatible wire contract; numeric
// fields arrive as decimal strings.
type TransactionRecord struct {
	Hash            string `json:"hash"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Nonce           string `json:"nonce"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	Gas             string `json:"gas"`
	GasUsed         string `json:"gasUsed"`
	GasPrice        string `json:"gasPrice"`
	Input           string `json:"input"`
	MethodID        string `json:"methodId"`
	FunctionName    string `json:"functionName"`
	IsError         string `json:"isError"`
	ContractAddress string `json:"contractAddress"`
}
