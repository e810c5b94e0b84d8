package erc20

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferTopicIsCanonical(t *testing.T) {
	// The well-known Transfer(address,address,uint256) topic.
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		TransferTopic.Hex())
}

func TestPackTransferRoundTrip(t *testing.T) {
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	value := big.NewInt(123456789)

	data, err := PackTransfer(to, value)
	require.NoError(t, err)
	require.Equal(t, ABI.Methods["transfer"].ID, data[:4])

	args, err := ABI.Methods["transfer"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, to, args[0])
	assert.Equal(t, value, args[1])
}

func TestParseTransferLog(t *testing.T) {
	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	value := big.NewInt(42)

	data, err := ABI.Events["Transfer"].Inputs.NonIndexed().Pack(value)
	require.NoError(t, err)

	gotFrom, gotTo, gotValue, err := ParseTransferLog(types.Log{
		Topics: []common.Hash{TransferTopic, AddressTopic(from), AddressTopic(to)},
		Data:   data,
	})
	require.NoError(t, err)
	assert.Equal(t, from, gotFrom)
	assert.Equal(t, to, gotTo)
	assert.Equal(t, value, gotValue)
}

func TestParseTransferLogRejectsOtherEvents(t *testing.T) {
	_, _, _, err := ParseTransferLog(types.Log{
		Topics: []common.Hash{common.HexToHash("0x01")},
	})
	assert.Error(t, err)
}
