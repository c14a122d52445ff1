package service

import (
	"github.com/charmsmith/internal/models"

	"github.com/shopspring/decimal"
)

// BreakdownLine 槽位分组后的价目行
type BreakdownLine struct {
	Charm     models.Charm `json:"charm"`
	Count     int          `json:"count"`
	LineTotal models.Money `json:"line_total"`
}

type breakdownKey struct {
	id    uint
	name  string
	price string
}

// BreakdownSlots 将槽位序列按 (id, name, price) 分组为价目行。
// 分组顺序为槽位中的首次出现顺序（稳定分组，不按价格或名称排序）。
func BreakdownSlots(slots []*models.Charm) []BreakdownLine {
	lines := make([]BreakdownLine, 0)
	indexMap := make(map[breakdownKey]int)
	for _, charm := range slots {
		if charm == nil {
			continue
		}
		key := breakdownKey{
			id:    charm.ID,
			name:  charm.Name,
			price: charm.Price.Decimal.Round(2).String(),
		}
		if idx, ok := indexMap[key]; ok {
			lines[idx].Count++
			continue
		}
		indexMap[key] = len(lines)
		lines = append(lines, BreakdownLine{
			Charm: charm.Snapshot(),
			Count: 1,
		})
	}
	for i := range lines {
		lines[i].LineTotal = lines[i].Charm.Price.MulInt(lines[i].Count)
	}
	return lines
}

// SlotsTotal 计算槽位总价（空槽计 0）
func SlotsTotal(slots []*models.Charm) decimal.Decimal {
	total := decimal.Zero
	for _, charm := range slots {
		if charm == nil {
			continue
		}
		total = total.Add(charm.Price.Decimal).Round(2)
	}
	return total
}
