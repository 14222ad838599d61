package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flashsale-system/services/flashsale-service/internal/config"
)

func saleConfig(enabled bool, start, end time.Time) config.SaleConfig {
	return config.SaleConfig{
		Enabled:      enabled,
		Start:        start,
		End:          end,
		Stock:        1000,
		ProductID:    "10001",
		ProductName:  "iPhone 16 Pro",
		ProductPrice: 3100,
	}
}

func TestActiveWindowBoundaries(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name    string
		enabled bool
		now     time.Time
		want    bool
	}{
		{"exactly at start is outside", true, start, false},
		{"exactly at end is outside", true, end, false},
		{"just inside start", true, start.Add(time.Microsecond), true},
		{"just inside end", true, end.Add(-time.Microsecond), true},
		{"before window", true, start.Add(-time.Minute), false},
		{"after window", true, end.Add(time.Minute), false},
		{"disabled flag wins over open window", false, start.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(saleConfig(tt.enabled, start, end)).
				WithClock(func() time.Time { return tt.now })
			assert.Equal(t, tt.want, p.Active())
			assert.Equal(t, tt.want, p.Status().IsActive)
		})
	}
}

func TestProductFromConfig(t *testing.T) {
	p := NewProvider(saleConfig(true, time.Now(), time.Now().Add(time.Hour)))

	product := p.Product()
	assert.Equal(t, "10001", product.ID)
	assert.Equal(t, "iPhone 16 Pro", product.Name)
	assert.Equal(t, 3100.0, product.Price)
	assert.Equal(t, int64(1000), product.Stock)
}
