package pdf

import "github.com/diewo77/go-invoice-ledger/internal/config"

// FromConfig builds a renderer honouring the seller overrides. An empty name
// keeps the default letterhead.
func FromConfig(s config.SellerConfig) *Renderer {
	var opts []Option
	if s.Name != "" {
		opts = append(opts, WithLetterhead(Letterhead{Name: s.Name, Address: s.Address}))
	}
	if s.Font != "" {
		opts = append(opts, WithFont(s.Font))
	}
	return NewRenderer(opts...)
}
