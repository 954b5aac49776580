package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Summarize(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (PeriodSummary, error)
	GetByEmployee(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]AttendanceResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Summarize folds an employee's daily rows over an inclusive date range.
// Days without a row contribute nothing; that is an absence, not an error.
func (s *service) Summarize(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (PeriodSummary, error) {
	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return PeriodSummary{}, err
	}

	summary := PeriodSummary{
		OvertimeByDayType: map[string]decimal.Decimal{},
	}

	for _, row := range rows {
		worked := row.RegularHours.Add(row.HolidayHours)
		if worked.IsPositive() {
			summary.DaysWorked++
		}

		summary.RegularHours = summary.RegularHours.Add(row.RegularHours)
		summary.OvertimeHours = summary.OvertimeHours.Add(row.OvertimeHours)
		summary.HolidayHours = summary.HolidayHours.Add(row.HolidayHours)
		summary.UndertimeHours = summary.UndertimeHours.Add(row.UndertimeHours)
		summary.NightDiffHours = summary.NightDiffHours.Add(row.NightDiffHours)

		if row.OvertimeHours.IsPositive() {
			summary.OvertimeByDayType[row.DayType] = summary.OvertimeByDayType[row.DayType].Add(row.OvertimeHours)
		}

		switch row.DayType {
		case DayTypeRegularHoliday, DayTypeRegularHolidaySunday:
			if worked.IsPositive() {
				summary.RegularHolidays++
			}
		case DayTypeSpecialHoliday:
			if worked.IsPositive() {
				summary.SpecialHolidays++
			}
		}
	}

	return summary, nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		WorkDate:       a.WorkDate.Format("2006-01-02"),
		DayType:        a.DayType,
		RegularHours:   a.RegularHours,
		OvertimeHours:  a.OvertimeHours,
		HolidayHours:   a.HolidayHours,
		UndertimeHours: a.UndertimeHours,
		NightDiffHours: a.NightDiffHours,
		Source:         a.Source,
	}
}
