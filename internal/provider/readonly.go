package provider

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ReadOnlyProvider serves read queries against the fallback public RPC.
// It deliberately implements neither Wallet nor EventSource.
type ReadOnlyProvider struct {
	rpc  *rpc.Client
	eth  *ethclient.Client
	poll time.Duration
}

// DialReadOnly connects to the fallback RPC endpoint.
func DialReadOnly(ctx context.Context, url string, poll time.Duration) (*ReadOnlyProvider, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial fallback rpc %s: %w", url, err)
	}
	return &ReadOnlyProvider{rpc: c, eth: ethclient.NewClient(c), poll: poll}, nil
}

func (p *ReadOnlyProvider) ReadOnly() bool { return true }

func (p *ReadOnlyProvider) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return p.rpc.CallContext(ctx, result, method, params...)
}

func (p *ReadOnlyProvider) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return p.eth.BalanceAt(ctx, addr, nil)
}

func (p *ReadOnlyProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.eth.ChainID(ctx)
}

func (p *ReadOnlyProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return p.eth.SuggestGasPrice(ctx)
}

func (p *ReadOnlyProvider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.eth.BlockNumber(ctx)
}

func (p *ReadOnlyProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return p.eth.CallContract(ctx, msg, nil)
}

func (p *ReadOnlyProvider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return p.eth.EstimateGas(ctx, msg)
}

func (p *ReadOnlyProvider) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return p.eth.FilterLogs(ctx, q)
}

func (p *ReadOnlyProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return p.eth.TransactionReceipt(ctx, hash)
}

func (p *ReadOnlyProvider) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*types.Receipt, error) {
	return waitForReceipt(ctx, p, hash, confirmations, p.poll)
}
