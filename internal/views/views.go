// Package views holds the pure join functions the screens render from.
// They read already-loaded store snapshots and perform no I/O; ordering
// guarantees come entirely from the backend's default ordering.
package views

import (
	"fmt"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
)

const recentLimit = 5

// lowStockCutoff is a display convenience, deliberately independent of
// any per-product alert rule threshold; the two are not reconciled.
const lowStockCutoff = 10

// Badge is the inventory screen's stock-level indicator.
type Badge string

const (
	BadgeOut Badge = "out"
	BadgeLow Badge = "low"
	BadgeOK  Badge = "ok"
)

// StockBadge classifies a stock figure: zero is "out", anything below
// the cutoff is "low", everything else (the cutoff included) is "ok".
func StockBadge(stock int) Badge {
	switch {
	case stock == 0:
		return BadgeOut
	case stock < lowStockCutoff:
		return BadgeLow
	default:
		return BadgeOK
	}
}

// Activity is one dashboard recent-activity line.
type Activity struct {
	Movement inventory.Movement
	Delta    string
}

// SignedQuantity renders a movement's quantity with its direction sign.
func SignedQuantity(m inventory.Movement) string {
	switch m.Type {
	case inventory.MovementIn:
		return fmt.Sprintf("+%d", m.Quantity)
	case inventory.MovementOut:
		return fmt.Sprintf("-%d", m.Quantity)
	default:
		return fmt.Sprintf("±%d", m.Quantity)
	}
}

// Summary is the dashboard join over four store snapshots.
type Summary struct {
	ProductCount     int
	CategoryCount    int
	TotalStock       int
	ActiveAlertCount int
	RecentActivity   []Activity
	LowStock         []alerts.Alert
}

// Dashboard assembles the summary. Total stock sums the server-computed
// per-product figures; recent activity takes the first movements in
// server order; low stock takes the first ACTIVE alerts.
func Dashboard(prods []products.Product, cats []categories.Category, movements []inventory.Movement, alertList []alerts.Alert) Summary {
	summary := Summary{
		ProductCount:  len(prods),
		CategoryCount: len(cats),
	}
	for _, p := range prods {
		summary.TotalStock += p.Stock
	}
	for _, m := range movements {
		if len(summary.RecentActivity) == recentLimit {
			break
		}
		summary.RecentActivity = append(summary.RecentActivity, Activity{Movement: m, Delta: SignedQuantity(m)})
	}
	for _, a := range alertList {
		if a.Status != alerts.StatusActive {
			continue
		}
		summary.ActiveAlertCount++
		if len(summary.LowStock) < recentLimit {
			summary.LowStock = append(summary.LowStock, a)
		}
	}
	return summary
}

// InventoryRow is one line of the inventory screen: the projection
// joined with its category name and badge.
type InventoryRow struct {
	Item         inventory.Item
	CategoryName string
	Badge        Badge
}

// InventoryRows decorates the loaded projections for display.
func InventoryRows(items []inventory.Item) []InventoryRow {
	rows := make([]InventoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, InventoryRow{
			Item:         item,
			CategoryName: item.Product.Category.Name,
			Badge:        StockBadge(item.CurrentStock),
		})
	}
	return rows
}
