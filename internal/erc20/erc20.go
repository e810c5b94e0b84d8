// Package erc20 packs and unpacks the handful of ERC-20 calls this service
// needs: balanceOf, transfer, name, symbol, decimals and the Transfer event.
// The ABI is fixed, so the bindings are written by hand instead of generated.
package erc20

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const abiJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Transfer","type":"event"}
]`

// ABI is the parsed ERC-20 interface fragment.
var ABI abi.ABI

// TransferTopic is the keccak topic of Transfer(address,address,uint256).
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

func init() {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("erc20: invalid ABI: %v", err))
	}
	ABI = parsed
}

func PackBalanceOf(owner common.Address) ([]byte, error) {
	return ABI.Pack("balanceOf", owner)
}

func PackTransfer(to common.Address, value *big.Int) ([]byte, error) {
	return ABI.Pack("transfer", to, value)
}

func PackName() ([]byte, error)     { return ABI.Pack("name") }
func PackSymbol() ([]byte, error)   { return ABI.Pack("symbol") }
func PackDecimals() ([]byte, error) { return ABI.Pack("decimals") }

// UnpackBigInt decodes a single uint256 return value.
func UnpackBigInt(method string, data []byte) (*big.Int, error) {
	out, err := ABI.Unpack(method, data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("erc20: %s returned no values", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("erc20: %s returned %T, want *big.Int", method, out[0])
	}
	return v, nil
}

// UnpackString decodes a single string return value.
func UnpackString(method string, data []byte) (string, error) {
	out, err := ABI.Unpack(method, data)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("erc20: %s returned no values", method)
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("erc20: %s returned %T, want string", method, out[0])
	}
	return v, nil
}

// UnpackUint8 decodes a single uint8 return value (decimals).
func UnpackUint8(method string, data []byte) (uint8, error) {
	out, err := ABI.Unpack(method, data)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("erc20: %s returned no values", method)
	}
	v, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("erc20: %s returned %T, want uint8", method, out[0])
	}
	return v, nil
}

// AddressTopic left-pads an address into an indexed-topic hash.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// ParseTransferLog extracts (from, to, value) out of a Transfer event log.
func ParseTransferLog(lg types.Log) (from, to common.Address, value *big.Int, err error) {
	if len(lg.Topics) < 3 || lg.Topics[0] != TransferTopic {
		return from, to, nil, fmt.Errorf("erc20: log is not a Transfer event")
	}
	from = common.BytesToAddress(lg.Topics[1].Bytes())
	to = common.BytesToAddress(lg.Topics[2].Bytes())
	value, err = UnpackBigInt("Transfer", lg.Data) // non-indexed args: value only
	if err != nil {
		return from, to, nil, err
	}
	return from, to, value, nil
}
