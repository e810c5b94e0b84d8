package provider

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"fmode-core/pkg/logger"
)

// WalletProvider talks to the wallet RPC endpoint. It carries the full
// Provider surface plus account/chain management, and supports chain-change
// notification by polling eth_chainId (a plain node RPC has no push event
// for it).
type WalletProvider struct {
	rpc  *rpc.Client
	eth  *ethclient.Client
	poll time.Duration

	mu          sync.Mutex
	handlers    map[int]func(uint64)
	nextHandler int
	stopWatch   chan struct{}
	lastChainID uint64
}

// DialWallet connects to the wallet endpoint. poll controls both receipt
// polling and chain-change watching.
func DialWallet(ctx context.Context, url string, poll time.Duration) (*WalletProvider, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc %s: %w", url, err)
	}
	return &WalletProvider{
		rpc:      c,
		eth:      ethclient.NewClient(c),
		poll:     poll,
		handlers: make(map[int]func(uint64)),
	}, nil
}

func (p *WalletProvider) ReadOnly() bool { return false }

func (p *WalletProvider) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return p.rpc.CallContext(ctx, result, method, params...)
}

func (p *WalletProvider) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return p.eth.BalanceAt(ctx, addr, nil)
}

func (p *WalletProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.eth.ChainID(ctx)
}

func (p *WalletProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return p.eth.SuggestGasPrice(ctx)
}

func (p *WalletProvider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.eth.BlockNumber(ctx)
}

func (p *WalletProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return p.eth.CallContract(ctx, msg, nil)
}

func (p *WalletProvider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return p.eth.EstimateGas(ctx, msg)
}

func (p *WalletProvider) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return p.eth.FilterLogs(ctx, q)
}

func (p *WalletProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return p.eth.TransactionReceipt(ctx, hash)
}

func (p *WalletProvider) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*types.Receipt, error) {
	return waitForReceipt(ctx, p, hash, confirmations, p.poll)
}

func (p *WalletProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *WalletProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *WalletProvider) SendTransaction(ctx context.Context, args SendTxArgs) (common.Hash, error) {
	var hash common.Hash
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (p *WalletProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	params := SwitchChainParams{ChainID: toHexChainID(chainID)}
	return p.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", params)
}

func (p *WalletProvider) AddChain(ctx context.Context, params AddChainParams) error {
	return p.rpc.CallContext(ctx, nil, "wallet_addEthereumChain", params)
}

// OnChainChanged registers a chain-change handler. The poll loop starts with
// the first handler and stops when the last one unsubscribes.
func (p *WalletProvider) OnChainChanged(handler func(newChainID uint64)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextHandler
	p.nextHandler++
	p.handlers[id] = handler
	if p.stopWatch == nil {
		p.stopWatch = make(chan struct{})
		go p.watchChain(p.stopWatch)
	}
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
		if len(p.handlers) == 0 && p.stopWatch != nil {
			close(p.stopWatch)
			p.stopWatch = nil
		}
	}
}

func (p *WalletProvider) watchChain(stop chan struct{}) {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.poll)
			id, err := p.eth.ChainID(ctx)
			cancel()
			if err != nil {
				logger.Debug("chain watch poll failed", zap.Error(err))
				continue
			}
			current := id.Uint64()

			p.mu.Lock()
			changed := p.lastChainID != 0 && p.lastChainID != current
			p.lastChainID = current
			var handlers []func(uint64)
			if changed {
				for _, h := range p.handlers {
					handlers = append(handlers, h)
				}
			}
			p.mu.Unlock()

			for _, h := range handlers {
				h(current)
			}
		}
	}
}

func toHexChainID(chainID uint64) string {
	return fmt.Sprintf("0x%x", chainID)
}
