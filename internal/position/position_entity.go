package position

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position carries the position-based daily rate, the middle tier of the
// employee rate fallback.
type Position struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string           `gorm:"type:varchar(120);not null;uniqueIndex"`
	DailyRate *decimal.Decimal `gorm:"type:decimal(14,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Position) TableName() string {
	return "positions"
}
