package ethaddr

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValid reports whether s is a 0x-prefixed, 20-byte hex address.
// Purely syntactic; no network call is ever made here.
func IsValid(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	return common.IsHexAddress(s)
}

// Normalize returns the EIP-55 checksummed form of a valid address.
// The input must already pass IsValid.
func Normalize(s string) string {
	return common.HexToAddress(s).Hex()
}

// Equal compares two addresses case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
