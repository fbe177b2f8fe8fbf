package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

type DailySales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	OrderCount        int             `json:"orderCount"`
	Revenue           decimal.Decimal `json:"revenue"`
	ShippingCollected decimal.Decimal `json:"shippingCollected"`
	Daily             []DailySales    `json:"daily"`
}

type ReportService struct {
	store *repository.Store
}

func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{store: store}
}

// Sales summarises orders placed in [from, to), ignoring cancelled ones.
// Days are bucketed in UTC and every day of the range appears in Daily.
func (s *ReportService) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	from, to = from.UTC(), to.UTC()
	if !to.After(from) {
		return nil, invalid("to", "to must be after from")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, invalid("to", "range must not exceed one year")
	}

	orders, err := s.store.Orders.PlacedBetween(ctx, from, to, models.OrderCancelled)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{From: from, To: to, Revenue: decimal.Zero, ShippingCollected: decimal.Zero}
	index := map[string]int{}
	for day := truncateDay(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		index[key] = len(report.Daily)
		report.Daily = append(report.Daily, DailySales{Date: key, Revenue: decimal.Zero})
	}

	for _, o := range orders {
		report.OrderCount++
		report.Revenue = report.Revenue.Add(o.TotalAmount)
		report.ShippingCollected = report.ShippingCollected.Add(o.ShippingFee)

		i, ok := index[o.CreatedAt.UTC().Format(time.DateOnly)]
		if !ok {
			continue
		}
		report.Daily[i].Orders++
		report.Daily[i].Revenue = report.Daily[i].Revenue.Add(o.TotalAmount)
	}
	return report, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
