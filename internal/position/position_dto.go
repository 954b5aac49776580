package position

import "github.com/shopspring/decimal"

type PositionResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	DailyRate *decimal.Decimal `json:"daily_rate,omitempty"`
}

func mapToResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		DailyRate: p.DailyRate,
	}
}

func mapToListResponse(rows []Position) []PositionResponse {
	resp := make([]PositionResponse, 0, len(rows))
	for _, p := range rows {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}
