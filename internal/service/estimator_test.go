package service

import (
	"context"
	"math/big"
	"testing"

	"fmode-core/internal/model"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *model.WalletSession {
	return &model.WalletSession{
		Address:  addrAlice,
		ChainID:  11155111,
		Provider: model.ProviderWallet,
	}
}

func TestEstimateComputesCost(t *testing.T) {
	wallet := newFakeWallet()
	wallet.gasLimit = 50000
	wallet.gasPrice = big.NewInt(20000000000) // 20 gwei
	wallet.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	src := &fakeSource{wallet: wallet}
	estimator := NewGasEstimator(src, newTestOracle(src, testToken()), testToken())

	est, err := estimator.Estimate(context.Background(), testSession(), addrBob, "1.5")
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), est.GasLimit)
	assert.Equal(t, "20000000000", est.GasPriceWei)
	assert.Equal(t, "1000000000000000", est.EstimatedCostWei)
	assert.Equal(t, "0.001", est.EstimatedCostEth)
}

func TestEstimateFailsFastBeforeAnyNetworkCall(t *testing.T) {
	tests := []struct {
		name    string
		session *model.WalletSession
		token   config.TokenConfig
		to      string
		wantErr errno.Errno
	}{
		{"no session", nil, testToken(), addrBob, errno.ErrNoActiveSession},
		{"token not configured", testSession(), config.TokenConfig{}, addrBob, errno.ErrTokenNotConfigured},
		{"bad address", testSession(), testToken(), "0xnothex", errno.ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := newFakeWallet()
			src := &fakeSource{wallet: wallet}
			estimator := NewGasEstimator(src, newTestOracle(src, tt.token), tt.token)

			_, err := estimator.Estimate(context.Background(), tt.session, tt.to, "1")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, wallet.callCount.Load())
		})
	}
}

func TestEstimateRejectsBadAmounts(t *testing.T) {
	wallet := newFakeWallet()
	wallet.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	src := &fakeSource{wallet: wallet}
	estimator := NewGasEstimator(src, newTestOracle(src, testToken()), testToken())

	for _, amount := range []string{"abc", "", "-1", "0"} {
		_, err := estimator.Estimate(context.Background(), testSession(), addrBob, amount)
		assert.ErrorIs(t, err, errno.ErrInvalidAmount, "amount %q", amount)
	}
	// Amount validation is purely syntactic; even with a cold metadata cache
	// a bad amount must not trigger a single contract call.
	assert.Zero(t, wallet.callCount.Load())
}

func TestEstimateRpcFailure(t *testing.T) {
	wallet := newFakeWallet()
	wallet.gasLimitErr = &walletError{code: -32000, msg: "execution reverted"}
	wallet.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	src := &fakeSource{wallet: wallet}
	estimator := NewGasEstimator(src, newTestOracle(src, testToken()), testToken())

	_, err := estimator.Estimate(context.Background(), testSession(), addrBob, "1")
	assert.ErrorIs(t, err, errno.ErrRpcFailure)
}
