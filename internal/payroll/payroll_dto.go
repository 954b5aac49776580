package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePeriodRequest struct {
	PeriodStart     string `json:"period_start" binding:"required"`
	PeriodEnd       string `json:"period_end" binding:"required"`
	PaymentDate     string `json:"payment_date" binding:"required"`
	PayPeriodNumber int    `json:"pay_period_number" binding:"required"`
	PayFrequency    string `json:"pay_frequency" binding:"omitempty,oneof=daily semi_monthly monthly"`
}

// ProcessRequest selects the roster. An explicit employee_ids list wins;
// otherwise the filters narrow the active roster, and empty filters mean
// every active employee. Version is the period version the caller last saw.
type ProcessRequest struct {
	Version      int64    `json:"version" binding:"required,min=1"`
	EmployeeIDs  []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	ProjectID    string   `json:"project_id" binding:"omitempty,uuid"`
	ContractType string   `json:"contract_type"`
	PositionID   string   `json:"position_id" binding:"omitempty,uuid"`
}

// TransitionRequest carries the expected version for the optimistic check on
// every status change.
type TransitionRequest struct {
	Version int64 `json:"version" binding:"required,min=1"`
}

type StageStamp struct {
	By string `json:"by"`
	At string `json:"at"`
}

type PeriodResponse struct {
	ID            string `json:"id"`
	PayrollNumber string `json:"payroll_number"`

	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PaymentDate string `json:"payment_date"`

	Year            int    `json:"year"`
	Month           int    `json:"month"`
	PayPeriodNumber int    `json:"pay_period_number"`
	PayFrequency    string `json:"pay_frequency"`

	Status string `json:"status"`

	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`

	Prepared    *StageStamp `json:"prepared,omitempty"`
	Checked     *StageStamp `json:"checked,omitempty"`
	Recommended *StageStamp `json:"recommended,omitempty"`
	Approved    *StageStamp `json:"approved,omitempty"`
	Paid        *StageStamp `json:"paid,omitempty"`
	CancelledAt *string     `json:"cancelled_at,omitempty"`

	Version int64 `json:"version"`

	ItemCount int            `json:"item_count"`
	Items     []ItemResponse `json:"items,omitempty"`

	// Warnings surface every fallback the last computation took.
	Warnings []string `json:"warnings,omitempty"`
}

type ItemResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`

	Rate       decimal.Decimal `json:"rate"`
	DaysWorked int             `json:"days_worked"`

	BasicPay     decimal.Decimal `json:"basic_pay"`
	OvertimePay  decimal.Decimal `json:"overtime_pay"`
	HolidayPay   decimal.Decimal `json:"holiday_pay"`
	NightDiffPay decimal.Decimal `json:"night_diff_pay"`
	Allowances   decimal.Decimal `json:"allowances"`
	Bonuses      decimal.Decimal `json:"bonuses"`
	Undertime    decimal.Decimal `json:"undertime"`
	GrossPay     decimal.Decimal `json:"gross_pay"`

	SSS             decimal.Decimal `json:"sss"`
	PhilHealth      decimal.Decimal `json:"philhealth"`
	Pagibig         decimal.Decimal `json:"pagibig"`
	WithholdingTax  decimal.Decimal `json:"withholding_tax"`
	LoanDeductions  decimal.Decimal `json:"loan_deductions"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	NetPay decimal.Decimal `json:"net_pay"`
}

func mapToItemResponse(item PayrollItem) ItemResponse {
	return ItemResponse{
		ID:              item.ID.String(),
		EmployeeID:      item.EmployeeID.String(),
		Rate:            item.Rate,
		DaysWorked:      item.DaysWorked,
		BasicPay:        item.BasicPay,
		OvertimePay:     item.OvertimePay,
		HolidayPay:      item.HolidayPay,
		NightDiffPay:    item.NightDiffPay,
		Allowances:      item.Allowances,
		Bonuses:         item.Bonuses,
		Undertime:       item.Undertime,
		GrossPay:        item.GrossPay,
		SSS:             item.SSS,
		PhilHealth:      item.PhilHealth,
		Pagibig:         item.Pagibig,
		WithholdingTax:  item.WithholdingTax,
		LoanDeductions:  item.LoanDeductions,
		OtherDeductions: item.OtherDeductions,
		TotalDeductions: item.TotalDeductions,
		NetPay:          item.NetPay,
	}
}

func mapToPeriodResponse(p PayrollPeriod, withItems bool) PeriodResponse {
	resp := PeriodResponse{
		ID:              p.ID.String(),
		PayrollNumber:   p.PayrollNumber,
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		Year:            p.Year,
		Month:           p.Month,
		PayPeriodNumber: p.PayPeriodNumber,
		PayFrequency:    p.PayFrequency,
		Status:          p.Status,
		TotalGrossPay:   p.TotalGrossPay,
		TotalDeductions: p.TotalDeductions,
		TotalNetPay:     p.TotalNetPay,
		Version:         p.Version,
		ItemCount:       len(p.Items),
	}

	resp.Prepared = stamp(p.PreparedBy, p.PreparedAt)
	resp.Checked = stamp(p.CheckedBy, p.CheckedAt)
	resp.Recommended = stamp(p.RecommendedBy, p.RecommendedAt)
	resp.Approved = stamp(p.ApprovedBy, p.ApprovedAt)
	resp.Paid = stamp(p.PaidBy, p.PaidAt)
	if p.CancelledAt != nil {
		s := p.CancelledAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.CancelledAt = &s
	}

	if withItems {
		resp.Items = make([]ItemResponse, 0, len(p.Items))
		for _, item := range p.Items {
			resp.Items = append(resp.Items, mapToItemResponse(item))
		}
	}

	return resp
}

func mapToListResponse(periods []PayrollPeriod) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, mapToPeriodResponse(p, false))
	}
	return out
}

func stamp(by *uuid.UUID, at *time.Time) *StageStamp {
	if by == nil || at == nil {
		return nil
	}
	return &StageStamp{
		By: by.String(),
		At: at.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
