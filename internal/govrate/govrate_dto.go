package govrate

import "github.com/shopspring/decimal"

type CreateRateRequest struct {
	RateType       string           `json:"rate_type" binding:"required,oneof=sss philhealth pagibig tax"`
	PeriodType     string           `json:"period_type" binding:"omitempty,oneof=daily weekly semi_monthly monthly annual"`
	MinSalary      decimal.Decimal  `json:"min_salary"`
	MaxSalary      *decimal.Decimal `json:"max_salary"`
	EmployeeRate   decimal.Decimal  `json:"employee_rate"`
	EmployerRate   decimal.Decimal  `json:"employer_rate"`
	EmployeeAmount decimal.Decimal  `json:"employee_amount"`
	EmployerAmount decimal.Decimal  `json:"employer_amount"`
	BaseTax        decimal.Decimal  `json:"base_tax"`
	EffectiveDate  string           `json:"effective_date" binding:"required"`
	EndDate        *string          `json:"end_date"`
}

type UpdateRateRequest struct {
	MaxSalary      *decimal.Decimal `json:"max_salary"`
	EmployeeRate   *decimal.Decimal `json:"employee_rate"`
	EmployerRate   *decimal.Decimal `json:"employer_rate"`
	EmployeeAmount *decimal.Decimal `json:"employee_amount"`
	EmployerAmount *decimal.Decimal `json:"employer_amount"`
	BaseTax        *decimal.Decimal `json:"base_tax"`
	EndDate        *string          `json:"end_date"`
}

type RateResponse struct {
	ID             string           `json:"id"`
	Seq            int64            `json:"seq"`
	RateType       string           `json:"rate_type"`
	PeriodType     string           `json:"period_type,omitempty"`
	MinSalary      decimal.Decimal  `json:"min_salary"`
	MaxSalary      *decimal.Decimal `json:"max_salary,omitempty"`
	EmployeeRate   decimal.Decimal  `json:"employee_rate"`
	EmployerRate   decimal.Decimal  `json:"employer_rate"`
	EmployeeAmount decimal.Decimal  `json:"employee_amount"`
	EmployerAmount decimal.Decimal  `json:"employer_amount"`
	BaseTax        decimal.Decimal  `json:"base_tax"`
	EffectiveDate  string           `json:"effective_date"`
	EndDate        *string          `json:"end_date,omitempty"`
	IsActive       bool             `json:"is_active"`
}
