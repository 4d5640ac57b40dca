package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// CompetitorPrice is an append-only observation of a competitor's price
// for a product. Only observations within the trailing window participate
// in auto-pricing.
type CompetitorPrice struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompetitorName string          `gorm:"type:varchar(255);not null"`
	Price          decimal.Decimal `gorm:"column:competitor_price;type:decimal(10,2);not null"`
	CompetitorURL  string          `gorm:"column:competitor_url;type:text"`
	CheckedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CompetitorPrice) TableName() string {
	return "competitor_prices"
}

// NewCompetitorPrice records a competitor price observation
func NewCompetitorPrice(productID uuid.UUID, competitorName string, price decimal.Decimal, competitorURL string, checkedAt time.Time) (*CompetitorPrice, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Observation requires a product")
	}
	if strings.TrimSpace(competitorName) == "" {
		return nil, shared.NewDomainError("INVALID_COMPETITOR", "Competitor name cannot be empty")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Competitor price must be positive")
	}
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	return &CompetitorPrice{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		CompetitorName: competitorName,
		Price:          price,
		CompetitorURL:  competitorURL,
		CheckedAt:      checkedAt,
	}, nil
}
