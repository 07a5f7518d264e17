package service

import (
	"context"
	"time"

	"go-estoque-condo/internal/store"

	"github.com/shopspring/decimal"
)

type DashboardService interface {
	GetOutputMovement(ctx context.Context, days int) ([]OutputMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// OutputMovementData is one day of the output chart
type OutputMovementData struct {
	Date     string `json:"date"`
	Outputs  int    `json:"outputs"`
	Quantity int    `json:"quantity"`
}

// DashboardStats for the overview cards
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	TotalUnits      int64           `json:"total_units"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
	TotalPeople     int64           `json:"total_people"`
	TotalOutputs    int64           `json:"total_outputs"`
}

type dashboardService struct {
	store             store.Provider
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(p store.Provider, lowStockThreshold int) DashboardService {
	return &dashboardService{store: p, lowStockThreshold: lowStockThreshold, now: time.Now}
}

// GetOutputMovement returns one entry per day for the last days days,
// oldest first, including days without outputs.
func (s *dashboardService) GetOutputMovement(ctx context.Context, days int) ([]OutputMovementData, error) {
	if days <= 0 {
		days = 7
	}
	end := s.now().UTC()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	logs, err := s.store.OutputLogs().FindBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	results := make([]OutputMovementData, days)
	index := make(map[string]int, days)
	for i := range results {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		results[i].Date = day
		index[day] = i
	}
	for _, l := range logs {
		if i, ok := index[l.Timestamp.UTC().Format("2006-01-02")]; ok {
			results[i].Outputs++
			results[i].Quantity += l.Quantity
		}
	}
	return results, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	products, err := s.store.Products().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := DashboardStats{TotalValuation: decimal.Zero}
	stats.TotalProducts = int64(len(products))
	for _, p := range products {
		switch {
		case p.Quantity == 0:
			stats.OutOfStockCount++
		case p.Quantity < s.lowStockThreshold:
			stats.LowStockCount++
		}
		stats.TotalUnits += int64(p.Quantity)
		stats.TotalValuation = stats.TotalValuation.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	stats.TotalValuation = stats.TotalValuation.Round(2)

	if stats.TotalPeople, err = s.store.People().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOutputs, err = s.store.OutputLogs().Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
