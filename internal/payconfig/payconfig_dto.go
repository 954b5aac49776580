package payconfig

import "github.com/shopspring/decimal"

type SetConfigRequest struct {
	Key         string          `json:"key" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description"`
}

type ConfigResponse struct {
	Key         string          `json:"key"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
}
