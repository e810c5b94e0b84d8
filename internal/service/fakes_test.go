package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"testing"

	"fmode-core/internal/erc20"
	"fmode-core/internal/model"
	"fmode-core/internal/provider"
	"fmode-core/pkg/errno"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// walletError satisfies the rpc.Error shape wallets use for EIP-1193 codes.
type walletError struct {
	code int
	msg  string
}

func (e *walletError) Error() string  { return e.msg }
func (e *walletError) ErrorCode() int { return e.code }

// fakeProvider is a scriptable Provider. Zero value answers everything with
// zeroes; tests set only the fields their path touches.
type fakeProvider struct {
	readOnly bool

	balance     *big.Int
	balanceErr  error
	chainID     uint64
	gasPrice    *big.Int
	gasPriceErr error
	head        uint64
	headErr     error
	gasLimit    uint64
	gasLimitErr error

	callFn    func(msg ethereum.CallMsg) ([]byte, error)
	callCount atomic.Int32

	logsFn      func(q ethereum.FilterQuery) ([]types.Log, error)
	filterCount atomic.Int32

	receipt    *types.Receipt
	receiptErr error
	// waitFn, when set, replaces the default WaitForReceipt behavior.
	waitFn    func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	waitCount atomic.Int32
}

func (p *fakeProvider) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return nil
}

func (p *fakeProvider) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	if p.balanceErr != nil {
		return nil, p.balanceErr
	}
	if p.balance == nil {
		return big.NewInt(0), nil
	}
	return p.balance, nil
}

func (p *fakeProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(p.chainID), nil
}

func (p *fakeProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if p.gasPriceErr != nil {
		return nil, p.gasPriceErr
	}
	if p.gasPrice == nil {
		return big.NewInt(1), nil
	}
	return p.gasPrice, nil
}

func (p *fakeProvider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.head, p.headErr
}

func (p *fakeProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	p.callCount.Add(1)
	if p.callFn == nil {
		return nil, errors.New("no contract call scripted")
	}
	return p.callFn(msg)
}

func (p *fakeProvider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if p.gasLimitErr != nil {
		return 0, p.gasLimitErr
	}
	return p.gasLimit, nil
}

func (p *fakeProvider) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	p.filterCount.Add(1)
	if p.logsFn == nil {
		return nil, nil
	}
	return p.logsFn(q)
}

func (p *fakeProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return p.receipt, p.receiptErr
}

func (p *fakeProvider) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*types.Receipt, error) {
	p.waitCount.Add(1)
	if p.waitFn != nil {
		return p.waitFn(ctx, hash)
	}
	if p.receiptErr != nil {
		return nil, p.receiptErr
	}
	return p.receipt, nil
}

func (p *fakeProvider) ReadOnly() bool { return p.readOnly }

// fakeWallet layers the wallet-only methods on a fakeProvider.
type fakeWallet struct {
	*fakeProvider

	accounts    []string
	requestErr  error
	accountsErr error

	sendHash  common.Hash
	sendErr   error
	sendCalls int
	lastSend  provider.SendTxArgs

	switchErr   error
	switchCalls int

	addErr    error
	addCalls  int
	lastAdded provider.AddChainParams
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{fakeProvider: &fakeProvider{}}
}

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	if w.requestErr != nil {
		return nil, w.requestErr
	}
	return w.accounts, nil
}

func (w *fakeWallet) Accounts(ctx context.Context) ([]string, error) {
	return w.accounts, w.accountsErr
}

func (w *fakeWallet) SendTransaction(ctx context.Context, args provider.SendTxArgs) (common.Hash, error) {
	w.sendCalls++
	w.lastSend = args
	if w.sendErr != nil {
		return common.Hash{}, w.sendErr
	}
	return w.sendHash, nil
}

func (w *fakeWallet) SwitchChain(ctx context.Context, chainID uint64) error {
	w.switchCalls++
	return w.switchErr
}

func (w *fakeWallet) AddChain(ctx context.Context, params provider.AddChainParams) error {
	w.addCalls++
	w.lastAdded = params
	return w.addErr
}

// fakeEventWallet adds the optional chain-change subscription capability.
type fakeEventWallet struct {
	*fakeWallet
	chainHandler func(uint64)
	unsubscribed bool
}

func (w *fakeEventWallet) OnChainChanged(handler func(newChainID uint64)) (unsubscribe func()) {
	w.chainHandler = handler
	return func() { w.unsubscribed = true }
}

// fakeSource hands out whichever fakes the test configured. The wallet field
// is the interface so event-capable fakes can be substituted.
type fakeSource struct {
	provider *fakeProvider
	wallet   provider.Wallet
}

func (s *fakeSource) GetProvider(ctx context.Context, preferInjected bool) (provider.Provider, error) {
	if preferInjected && s.wallet != nil {
		return s.wallet, nil
	}
	if s.provider != nil {
		return s.provider, nil
	}
	if s.wallet != nil {
		return s.wallet, nil
	}
	return nil, errno.ErrProviderUnavailable
}

func (s *fakeSource) GetWallet(ctx context.Context) (provider.Wallet, error) {
	if s.wallet == nil {
		return nil, errno.ErrProviderUnavailable
	}
	return s.wallet, nil
}

func (s *fakeSource) ByHandle(ctx context.Context, h model.ProviderHandle) (provider.Provider, error) {
	if h == model.ProviderWallet {
		return s.GetWallet(ctx)
	}
	if s.provider == nil {
		return nil, errno.ErrProviderUnavailable
	}
	return s.provider, nil
}

func (s *fakeSource) HasWallet() bool { return s.wallet != nil }

func packOutputs(t *testing.T, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := erc20.ABI.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

// scriptTokenCalls answers name/symbol/decimals/balanceOf eth_calls with the
// given token parameters.
func scriptTokenCalls(t *testing.T, name, symbol string, decimals uint8, balance *big.Int) func(msg ethereum.CallMsg) ([]byte, error) {
	t.Helper()
	return func(msg ethereum.CallMsg) ([]byte, error) {
		method, err := erc20.ABI.MethodById(msg.Data[:4])
		if err != nil {
			return nil, err
		}
		switch method.Name {
		case "name":
			return packOutputs(t, "name", name), nil
		case "symbol":
			return packOutputs(t, "symbol", symbol), nil
		case "decimals":
			return packOutputs(t, "decimals", decimals), nil
		case "balanceOf":
			return packOutputs(t, "balanceOf", balance), nil
		}
		return nil, fmt.Errorf("unexpected contract call: %s", method.Name)
	}
}

// makeTransferLog builds a Transfer event log the way a node would return it.
func makeTransferLog(t *testing.T, from, to common.Address, value *big.Int, block uint64, txSeed byte) types.Log {
	t.Helper()
	data, err := erc20.ABI.Events["Transfer"].Inputs.NonIndexed().Pack(value)
	require.NoError(t, err)
	return types.Log{
		Topics:      []common.Hash{erc20.TransferTopic, erc20.AddressTopic(from), erc20.AddressTopic(to)},
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BytesToHash([]byte{txSeed}),
	}
}
