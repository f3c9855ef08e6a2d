package stats

import (
	"sort"
	"time"

	"github.com/example/pterohub-shop/internal/domain/product"
	"github.com/example/pterohub-shop/internal/domain/purchase"
)

const (
	lowStockThreshold = 5
	recentOrderCount  = 10
	salesWindowDays   = 7
	topProductCount   = 5

	// dayLabelFormat buckets purchases by their formatted day+month label.
	dayLabelFormat = "2 Jan"
)

// DashboardStats is a snapshot-in-time aggregate over the current products
// and purchases. It is recomputed in full on every call; nothing here is
// stored.
type DashboardStats struct {
	TotalSales       int                 `json:"total_sales"`
	TotalOrders      int                 `json:"total_orders"`
	TotalProducts    int                 `json:"total_products"`
	LowStockProducts int                 `json:"low_stock_products"`
	RecentOrders     []purchase.Purchase `json:"recent_orders"`
	SalesByDay       []DailySales        `json:"sales_by_day"`
	OrdersByStatus   []StatusCount       `json:"orders_by_status"`
	SalesByPayment   []PaymentSales      `json:"sales_by_payment"`
	TopProducts      []ProductRank       `json:"top_products"`
}

type DailySales struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
}

type StatusCount struct {
	Status purchase.Status `json:"status"`
	Count  int             `json:"count"`
}

type PaymentSales struct {
	Method purchase.PaymentMethod `json:"method"`
	Amount int                    `json:"amount"`
}

type ProductRank struct {
	Name    string `json:"name"`
	Sales   int    `json:"sales"`
	Revenue int    `json:"revenue"`
}

// countsAsRevenue reports whether a purchase's price is realized revenue.
// Paid and completed count; pending, processing, and cancelled do not.
func countsAsRevenue(s purchase.Status) bool {
	return s == purchase.StatusCompleted || s == purchase.StatusPaid
}

// Compute derives the dashboard metrics from a consistent snapshot of the
// two collections. Purchases must be newest-first, as the repository keeps
// them. now anchors the 7-day sales window.
func Compute(products []product.Product, purchases []purchase.Purchase, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalOrders:    len(purchases),
		SalesByDay:     make([]DailySales, 0, salesWindowDays),
		OrdersByStatus: make([]StatusCount, 0, len(purchase.Statuses)),
		SalesByPayment: make([]PaymentSales, 0, len(purchase.PaymentMethods)),
	}

	for _, p := range purchases {
		if countsAsRevenue(p.Status) {
			stats.TotalSales += p.Price
		}
	}

	for _, p := range products {
		if !p.IsActive {
			continue
		}
		stats.TotalProducts++
		if p.Stock <= lowStockThreshold {
			stats.LowStockProducts++
		}
	}

	stats.RecentOrders = purchases
	if len(stats.RecentOrders) > recentOrderCount {
		stats.RecentOrders = stats.RecentOrders[:recentOrderCount]
	}

	// One bucket per calendar day, oldest first, today inclusive. Purchases
	// match a bucket when their formatted labels are equal.
	for i := salesWindowDays - 1; i >= 0; i-- {
		label := now.AddDate(0, 0, -i).Format(dayLabelFormat)
		amount := 0
		for _, p := range purchases {
			if countsAsRevenue(p.Status) && p.CreatedAt.Format(dayLabelFormat) == label {
				amount += p.Price
			}
		}
		stats.SalesByDay = append(stats.SalesByDay, DailySales{Date: label, Amount: amount})
	}

	for _, status := range purchase.Statuses {
		count := 0
		for _, p := range purchases {
			if p.Status == status {
				count++
			}
		}
		stats.OrdersByStatus = append(stats.OrdersByStatus, StatusCount{Status: status, Count: count})
	}

	for _, method := range purchase.PaymentMethods {
		amount := 0
		for _, p := range purchases {
			if p.PaymentMethod == method && countsAsRevenue(p.Status) {
				amount += p.Price
			}
		}
		stats.SalesByPayment = append(stats.SalesByPayment, PaymentSales{Method: method, Amount: amount})
	}

	sold := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.SalesCount > 0 {
			sold = append(sold, p)
		}
	}
	sort.SliceStable(sold, func(i, j int) bool {
		return sold[i].SalesCount > sold[j].SalesCount
	})
	if len(sold) > topProductCount {
		sold = sold[:topProductCount]
	}
	stats.TopProducts = make([]ProductRank, 0, len(sold))
	for _, p := range sold {
		stats.TopProducts = append(stats.TopProducts, ProductRank{
			Name:  p.Name,
			Sales: p.SalesCount,
			// Revenue uses the current price, not the price at sale time.
			Revenue: p.SalesCount * p.Price,
		})
	}

	return stats
}
