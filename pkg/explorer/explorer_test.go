package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderURLs(t *testing.T) {
	b := New("https://sepolia.etherscan.io/")

	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", b.TxURL("0xabc"))
	assert.Equal(t, "https://sepolia.etherscan.io/address/0xdef", b.AddressURL("0xdef"))
	assert.Equal(t, "https://sepolia.etherscan.io/token/0x123", b.TokenURL("0x123"))
}

func TestBuilderNoTrailingSlash(t *testing.T) {
	b := New("https://etherscan.io")
	assert.Equal(t, "https://etherscan.io/tx/0xabc", b.TxURL("0xabc"))
}
