package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// Summary aggregates a set of orders.
type Summary struct {
	OrderCount      int             `json:"order_count"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	CashTotal       decimal.Decimal `json:"cash_total"`
	DebitCardTotal  decimal.Decimal `json:"debit_card_total"`
	CreditCardTotal decimal.Decimal `json:"credit_card_total"`
}

// PeriodSummary is a Summary with the range it covers.
type PeriodSummary struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Summary
}

type ReportService interface {
	Summarize(ctx context.Context, startDate, endDate string) (*PeriodSummary, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

func (s *reportService) Summarize(ctx context.Context, startDate, endDate string) (*PeriodSummary, error) {
	// 1. Reject bad ranges before touching the store
	if _, _, err := parseRange(startDate, endDate); err != nil {
		return nil, err
	}

	// 2. Load and aggregate
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable("load orders", err)
	}
	summary, err := Summarize(orders, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &PeriodSummary{StartDate: startDate, EndDate: endDate, Summary: summary}, nil
}

// Summarize totals the orders whose date falls in [startDate, endDate], both dd/mm/yyyy and
// inclusive. Orders with an unreadable date are left out.
func Summarize(orders []model.Order, startDate, endDate string) (Summary, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return Summary{}, err
	}

	inRange := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		day, ok := parseDay(o.Date)
		if !ok {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		inRange = append(inRange, o)
	}
	return Tally(inRange), nil
}

// Tally sums orders per payment method. Unknown methods count only toward the grand total.
func Tally(orders []model.Order) Summary {
	sum := Summary{
		GrandTotal:      decimal.Zero,
		CashTotal:       decimal.Zero,
		DebitCardTotal:  decimal.Zero,
		CreditCardTotal: decimal.Zero,
	}
	for _, o := range orders {
		sum.OrderCount++
		sum.GrandTotal = sum.GrandTotal.Add(o.Total)
		switch o.PaymentMethod {
		case model.PaymentCash:
			sum.CashTotal = sum.CashTotal.Add(o.Total)
		case model.PaymentDebitCard:
			sum.DebitCardTotal = sum.DebitCardTotal.Add(o.Total)
		case model.PaymentCreditCard:
			sum.CreditCardTotal = sum.CreditCardTotal.Add(o.Total)
		}
	}
	return sum
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return time.Time{}, time.Time{}, apperr.Validation("start and end dates are required")
	}
	start, ok := parseDay(startDate)
	if !ok {
		return time.Time{}, time.Time{}, apperr.Validation("invalid start date %q, use dd/mm/yyyy", startDate)
	}
	end, ok := parseDay(endDate)
	if !ok {
		return time.Time{}, time.Time{}, apperr.Validation("invalid end date %q, use dd/mm/yyyy", endDate)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperr.Validation("start date is after end date")
	}
	return start, end, nil
}

// parseDay reads d/m/yyyy, tolerating missing zero padding. Dates that do not exist
// (31/02/2024) are rejected.
func parseDay(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
