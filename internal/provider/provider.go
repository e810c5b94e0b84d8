// Package provider wraps the two JSON-RPC surfaces this service can talk to:
// a wallet endpoint (an account-bearing node or signer bridge, the headless
// stand-in for a browser-injected provider) and a read-only fallback RPC.
package provider

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// Wallet error codes defined by EIP-1193 / EIP-3085.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
)

// Provider is the uniform read surface over either endpoint.
type Provider interface {
	// Call issues a raw JSON-RPC request.
	Call(ctx context.Context, result interface{}, method string, params ...interface{}) error
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	// WaitForReceipt blocks until the transaction has a receipt with the
	// requested confirmation depth, or ctx is canceled. No timeout of its
	// own; callers layer cancellation on top.
	WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*types.Receipt, error)
	// ReadOnly reports whether wallet-requiring operations are unavailable.
	ReadOnly() bool
}

// Wallet extends Provider with the account and chain-management methods only
// the wallet endpoint offers.
type Wallet interface {
	Provider
	// RequestAccounts prompts for account access (eth_requestAccounts).
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts lists already-authorized accounts without prompting (eth_accounts).
	Accounts(ctx context.Context) ([]string, error)
	SendTransaction(ctx context.Context, args SendTxArgs) (common.Hash, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, params AddChainParams) error
}

// EventSource is the optional chain-change subscription capability. Callers
// must check for it explicitly; a provider without it simply cannot notify.
type EventSource interface {
	// OnChainChanged registers a handler and returns its unsubscribe func.
	OnChainChanged(handler func(newChainID uint64)) (unsubscribe func())
}

// SendTxArgs mirrors the eth_sendTransaction parameter object. Signing and
// nonce management stay on the wallet side.
type SendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// AddChainParams mirrors the wallet_addEthereumChain parameter object (EIP-3085).
type AddChainParams struct {
	ChainID           string         `json:"chainId"` // hex-encoded
	ChainName         string         `json:"chainName"`
	RpcUrls           []string       `json:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	BlockExplorerUrls []string       `json:"blockExplorerUrls,omitempty"`
}

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// SwitchChainParams mirrors the wallet_switchEthereumChain parameter object.
type SwitchChainParams struct {
	ChainID string `json:"chainId"` // hex-encoded
}

// ErrorCode extracts the provider error code, or 0 when the error carries none.
func ErrorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

// IsUserRejected reports whether the wallet user declined the request.
func IsUserRejected(err error) bool {
	return ErrorCode(err) == CodeUserRejected
}
