package compensation

import "github.com/shopspring/decimal"

type CreateAllowanceRequest struct {
	Name          string          `json:"name" binding:"required"`
	Type          string          `json:"type" binding:"omitempty,oneof=allowance bonus"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Frequency     string          `json:"frequency" binding:"omitempty,oneof=daily weekly monthly"`
	EffectiveFrom string          `json:"effective_from" binding:"required"`
	EffectiveTo   *string         `json:"effective_to"`
}

type CreateDeductionRequest struct {
	Name    string          `json:"name" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Balance decimal.Decimal `json:"balance" binding:"required"`
}

type CreateLoanRequest struct {
	LoanType     string          `json:"loan_type"`
	Principal    decimal.Decimal `json:"principal" binding:"required"`
	Amortization decimal.Decimal `json:"amortization" binding:"required"`
	StartDate    string          `json:"start_date" binding:"required"`
}

type AllowanceResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to,omitempty"`
}

type DeductionResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	InstallmentsPaid int             `json:"installments_paid"`
}

type LoanResponse struct {
	ID           string          `json:"id"`
	LoanType     string          `json:"loan_type"`
	Principal    decimal.Decimal `json:"principal"`
	Balance      decimal.Decimal `json:"balance"`
	Amortization decimal.Decimal `json:"amortization"`
	Status       string          `json:"status"`
}

type LedgerResponse struct {
	EmployeeID string              `json:"employee_id"`
	Allowances []AllowanceResponse `json:"allowances"`
	Deductions []DeductionResponse `json:"deductions"`
	Loans      []LoanResponse      `json:"loans"`
}

func mapToLedgerResponse(
	employeeID string,
	allowances []EmployeeAllowance,
	deductions []EmployeeDeduction,
	loans []EmployeeLoan,
) LedgerResponse {
	resp := LedgerResponse{
		EmployeeID: employeeID,
		Allowances: make([]AllowanceResponse, len(allowances)),
		Deductions: make([]DeductionResponse, len(deductions)),
		Loans:      make([]LoanResponse, len(loans)),
	}

	for i, a := range allowances {
		resp.Allowances[i] = mapToAllowanceResponse(a)
	}
	for i, d := range deductions {
		resp.Deductions[i] = mapToDeductionResponse(d)
	}
	for i, l := range loans {
		resp.Loans[i] = mapToLoanResponse(l)
	}

	return resp
}

func mapToAllowanceResponse(a EmployeeAllowance) AllowanceResponse {
	row := AllowanceResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Type:          a.Type,
		Amount:        a.Amount,
		Frequency:     a.Frequency,
		EffectiveFrom: a.EffectiveFrom.Format("2006-01-02"),
	}
	if a.EffectiveTo != nil {
		v := a.EffectiveTo.Format("2006-01-02")
		row.EffectiveTo = &v
	}
	return row
}

func mapToDeductionResponse(d EmployeeDeduction) DeductionResponse {
	return DeductionResponse{
		ID:               d.ID.String(),
		Name:             d.Name,
		Amount:           d.Amount,
		Balance:          d.Balance,
		InstallmentsPaid: d.InstallmentsPaid,
	}
}

func mapToLoanResponse(l EmployeeLoan) LoanResponse {
	return LoanResponse{
		ID:           l.ID.String(),
		LoanType:     l.LoanType,
		Principal:    l.Principal,
		Balance:      l.Balance,
		Amortization: l.Amortization,
		Status:       l.Status,
	}
}
