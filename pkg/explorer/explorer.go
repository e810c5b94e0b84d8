package explorer

import "strings"

// Builder produces block-explorer deep links. Pure string templating,
// no network calls.
type Builder struct {
	base string
}

func New(baseURL string) *Builder {
	return &Builder{base: strings.TrimRight(baseURL, "/")}
}

// TxURL links a transaction hash.
func (b *Builder) TxURL(hash string) string {
	return b.base + "/tx/" + hash
}

// AddressURL links an account address.
func (b *Builder) AddressURL(addr string) string {
	return b.base + "/address/" + addr
}

// TokenURL links a token contract page.
func (b *Builder) TokenURL(tokenAddr string) string {
	return b.base + "/token/" + tokenAddr
}
