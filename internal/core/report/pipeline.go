package report

import (
	"math"
)

// criticalPreviewLimit 預覽面板最多顯示的緊急品項數
const criticalPreviewLimit = 5

// PreviousPeriod 計算緊鄰在前、等長的比較期間
// range = [from, to] 時，前期為 [from-天數, from-1天]
func PreviousPeriod(r DateRange) DateRange {
	days := int(r.To.Sub(r.From).Hours() / 24)
	return DateRange{
		From: r.From.AddDate(0, 0, -days),
		To:   r.From.AddDate(0, 0, -1),
	}
}

// PercentageChange 計算百分比變化，前期為 0 時固定回傳 0，避免除以零
func PercentageChange(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

// ComparePeriods 逐項計算當期相對前期的百分比變化
func ComparePeriods(current, previous Metrics) PeriodComparison {
	return PeriodComparison{
		TotalSalesChange:    PercentageChange(current.TotalSales, previous.TotalSales),
		AvgDailySalesChange: PercentageChange(current.AvgDailySales, previous.AvgDailySales),
		TotalOrdersChange:   PercentageChange(float64(current.TotalOrders), float64(previous.TotalOrders)),
		AvgOrderValueChange: PercentageChange(current.AvgOrderValue, previous.AvgOrderValue),
		GrossProfitChange:   PercentageChange(current.GrossProfit, previous.GrossProfit),
		ProfitMarginChange:  PercentageChange(current.ProfitMargin, previous.ProfitMargin),
	}
}

// BucketInventory 依預先標記的狀態把庫存品項分成四個互斥分組
func BucketInventory(items []InventoryItem) InventoryBuckets {
	var buckets InventoryBuckets
	for _, item := range items {
		switch item.Status {
		case StatusLow:
			buckets.Low = append(buckets.Low, item)
		case StatusCritical:
			buckets.Critical = append(buckets.Critical, item)
		case StatusDepleted:
			buckets.Depleted = append(buckets.Depleted, item)
		default:
			buckets.Normal = append(buckets.Normal, item)
		}
	}
	return buckets
}

// CriticalPreview 篩出 critical 與 depleted 的品項，最多取前 5 筆供預覽面板使用
func CriticalPreview(items []InventoryItem) []InventoryItem {
	preview := make([]InventoryItem, 0, criticalPreviewLimit)
	for _, item := range items {
		if item.Status != StatusCritical && item.Status != StatusDepleted {
			continue
		}
		preview = append(preview, item)
		if len(preview) == criticalPreviewLimit {
			break
		}
	}
	return preview
}
