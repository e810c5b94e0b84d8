package model

// ProviderHandle names the provider surface a session is bound to. Services
// resolve the concrete provider through the gateway; sessions stay plain data.
type ProviderHandle string

const (
	ProviderWallet   ProviderHandle = "wallet"
	ProviderReadOnly ProviderHandle = "readonly"
)

// WalletSession is an immutable snapshot of an established wallet connection.
// A change of address or chain produces a new value; nothing mutates one in
// place. Only the connector creates sessions.
type WalletSession struct {
	Address  string         `json:"address"`
	ChainID  uint64         `json:"chain_id"`
	Provider ProviderHandle `json:"provider"`
	ReadOnly bool           `json:"read_only"`
}

// NetworkInfo is derived on every query, never stored.
type NetworkInfo struct {
	ChainID           uint64 `json:"chain_id"`
	Name              string `json:"name"`
	IsExpectedNetwork bool   `json:"is_expected_network"`
}

// TokenMetadata is immutable once fetched; cached with no TTL because token
// contract parameters do not change.
type TokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// GasEstimate is a point-in-time snapshot. Gas price is volatile, so the
// value is advisory only and must never gate submission.
type GasEstimate struct {
	GasLimit         uint64 `json:"gas_limit"`
	GasPriceWei      string `json:"gas_price_wei"`
	EstimatedCostWei string `json:"estimated_cost_wei"`
	EstimatedCostEth string `json:"estimated_cost_eth"`
}

// TxStatus is the confirmation state machine's state set.
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusConfirming TxStatus = "confirming"
	StatusConfirmed  TxStatus = "confirmed"
	StatusFailed     TxStatus = "failed"
)

// TransactionHandle is created the instant a submission returns a hash.
// The hash is its immutable identity for the rest of the lifecycle.
type TransactionHandle struct {
	Hash        string   `json:"hash"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Amount      string   `json:"amount"`
	ExplorerURL string   `json:"explorer_url"`
	Status      TxStatus `json:"status"`
}

// TransactionOutcome is produced exactly once per tracked handle; terminal.
type TransactionOutcome struct {
	Hash          string   `json:"hash"`
	Status        TxStatus `json:"status"` // confirmed | failed
	GasUsed       uint64   `json:"gas_used,omitempty"`
	BlockNumber   uint64   `json:"block_number,omitempty"`
	To            string   `json:"to,omitempty"`
	ExplorerURL   string   `json:"explorer_url"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// Direction classifies a transfer relative to the subject address.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// TransferRecord is ephemeral: recomputed on each history refresh and never
// persisted by this service.
type TransferRecord struct {
	TxHash      string    `json:"tx_hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      string    `json:"amount"`
	BlockNumber uint64    `json:"block_number"`
	ExplorerURL string    `json:"explorer_url"`
	Direction   Direction `json:"direction"`
}
