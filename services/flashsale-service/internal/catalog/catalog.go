// flashsale-service/internal/catalog/catalog.go
package catalog

import (
	"time"

	"flashsale-system/services/flashsale-service/internal/config"
)

// Product is the single item on sale. Identity and price are configuration,
// not database state; the catalog never changes while the process runs.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int64   `json:"stock"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// ProgramStatus reports whether the sale window is currently open.
type ProgramStatus struct {
	IsActive bool `json:"isActive"`
}

// Provider answers the two read-only questions admission asks: which product
// is on sale, and whether the program window is open right now.
type Provider struct {
	product Product
	enabled bool
	start   time.Time
	end     time.Time
	now     func() time.Time
}

func NewProvider(cfg config.SaleConfig) *Provider {
	return &Provider{
		product: Product{
			ID:        cfg.ProductID,
			Name:      cfg.ProductName,
			Price:     cfg.ProductPrice,
			Stock:     cfg.Stock,
			Thumbnail: cfg.ProductThumbnail,
		},
		enabled: cfg.Enabled,
		start:   cfg.Start,
		end:     cfg.End,
		now:     time.Now,
	}
}

func (p *Provider) Product() Product {
	return p.product
}

// Active reports whether the program is enabled and the current instant falls
// strictly inside (start, end). Requests landing exactly on either boundary
// are outside the window.
func (p *Provider) Active() bool {
	now := p.now()
	return p.enabled && now.After(p.start) && now.Before(p.end)
}

func (p *Provider) Status() ProgramStatus {
	return ProgramStatus{IsActive: p.Active()}
}

// WithClock overrides the time source. Test hook.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}
