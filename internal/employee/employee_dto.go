package employee

import "github.com/shopspring/decimal"

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Status         string `json:"status"`
	PositionID     string `json:"position_id,omitempty"`
	PositionName   string `json:"position_name,omitempty"`
	ProjectID      string `json:"project_id,omitempty"`
	ContractType   string `json:"contract_type"`
	PayFrequency   string `json:"pay_frequency"`

	BasicSalary     decimal.Decimal  `json:"basic_salary"`
	CustomDailyRate *decimal.Decimal `json:"custom_daily_rate,omitempty"`

	HasSSS        bool `json:"has_sss"`
	HasPhilHealth bool `json:"has_philhealth"`
	HasPagibig    bool `json:"has_pagibig"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID.String(),
		EmployeeNumber:  e.EmployeeNumber,
		FullName:        e.FullName,
		Status:          e.Status,
		ContractType:    e.ContractType,
		PayFrequency:    e.PayFrequency,
		BasicSalary:     e.BasicSalary,
		CustomDailyRate: e.CustomDailyRate,
		HasSSS:          e.HasSSS,
		HasPhilHealth:   e.HasPhilHealth,
		HasPagibig:      e.HasPagibig,
	}
	if e.PositionID != nil {
		resp.PositionID = e.PositionID.String()
	}
	if e.Position != nil {
		resp.PositionName = e.Position.Name
	}
	if e.ProjectID != nil {
		resp.ProjectID = e.ProjectID.String()
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, mapToResponse(e))
	}
	return out
}
