package customer

import (
	"sort"
	"time"

	"github.com/example/pterohub-shop/internal/domain/purchase"
)

// Customer is the roll-up of all purchases sharing an email. It is never
// stored; Aggregate recomputes it from the purchase collection on demand.
type Customer struct {
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	TotalOrders int                 `json:"total_orders"`
	TotalSpent  int                 `json:"total_spent"`
	LastOrder   time.Time           `json:"last_order"`
	Orders      []purchase.Purchase `json:"orders"`
}

// Aggregate groups purchases by customer email and returns the customers
// sorted by total spent, descending. Ties keep first-seen order.
//
// Name and phone come from the purchase that seeds the entry; since the
// collection is kept newest-first, that is the customer's latest purchase.
func Aggregate(purchases []purchase.Purchase) []Customer {
	index := make(map[string]int)
	customers := make([]Customer, 0)

	for _, p := range purchases {
		i, seen := index[p.CustomerEmail]
		if !seen {
			index[p.CustomerEmail] = len(customers)
			customers = append(customers, Customer{
				Email:       p.CustomerEmail,
				Name:        p.CustomerName,
				Phone:       p.CustomerPhone,
				TotalOrders: 1,
				TotalSpent:  p.Price,
				LastOrder:   p.CreatedAt,
				Orders:      []purchase.Purchase{p},
			})
			continue
		}

		c := &customers[i]
		c.TotalOrders++
		c.TotalSpent += p.Price
		if p.CreatedAt.After(c.LastOrder) {
			c.LastOrder = p.CreatedAt
		}
		c.Orders = append(c.Orders, p)
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent > customers[j].TotalSpent
	})
	return customers
}
