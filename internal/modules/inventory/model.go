package inventory

import (
	"sort"

	"github.com/google/uuid"
)

// Line is a quantity of one product to take from or return to stock.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Level is a product's stock on hand.
type Level struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// AdjustStockRequest moves a product's stock by Delta (negative to write off).
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// normalize merges lines for the same product and orders them by product id,
// so concurrent reservations lock product rows in the same order.
func normalize(lines []Line) []Line {
	totals := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}
	out := make([]Line, 0, len(totals))
	for id, qty := range totals {
		out = append(out, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID.String() < out[j].ProductID.String() })
	return out
}
