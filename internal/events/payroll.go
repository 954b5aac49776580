package events

import "time"

const PayrollPeriodTopic = "hr.payroll.period.v1"

const (
	PayrollPeriodCreated     = "payroll_period_created"
	PayrollPeriodProcessed   = "payroll_period_processed"
	PayrollPeriodChecked     = "payroll_period_checked"
	PayrollPeriodRecommended = "payroll_period_recommended"
	PayrollPeriodApproved    = "payroll_period_approved"
	PayrollPeriodPaid        = "payroll_period_paid"
	PayrollPeriodCancelled   = "payroll_period_cancelled"
)

// PayrollPeriodEvent is published once per lifecycle transition. RequestID
// carries the originating request so downstream consumers can correlate logs.
type PayrollPeriodEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	PayrollID     string    `json:"payroll_id"`
	PayrollNumber string    `json:"payroll_number"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actor_id"`
	ItemCount     int       `json:"item_count"`
	NetTotal      string    `json:"net_total"`
	OccurredAt    time.Time `json:"occurred_at"`
}
