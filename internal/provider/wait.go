package provider

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// waitForReceipt polls until the transaction is mined and, when asked for
// more than one confirmation, until the head has advanced far enough past the
// inclusion block. It imposes no timeout of its own; ctx carries cancellation.
func waitForReceipt(ctx context.Context, p Provider, hash common.Hash, confirmations uint64, poll time.Duration) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var receipt *types.Receipt
	for receipt == nil {
		r, err := p.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && r != nil:
			receipt = r
		case errors.Is(err, ethereum.NotFound):
			// not mined yet, keep polling
		case err != nil:
			return nil, err
		}

		if receipt == nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	for {
		head, err := p.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		if head >= receipt.BlockNumber.Uint64()+confirmations-1 {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
