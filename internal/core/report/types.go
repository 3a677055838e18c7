package report

import (
	"context"
	"time"
)

// DateRange 報表查詢的日期範圍（閉區間，以日為單位）
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Metrics 單一期間的彙總指標
type Metrics struct {
	TotalSales    float64 `json:"total_sales"`
	AvgDailySales float64 `json:"avg_daily_sales"`
	TotalOrders   int     `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
	GrossProfit   float64 `json:"gross_profit"`
	ProfitMargin  float64 `json:"profit_margin"`
}

// PeriodComparison 當期與前一等長期間的百分比變化
type PeriodComparison struct {
	TotalSalesChange    int `json:"total_sales_change"`
	AvgDailySalesChange int `json:"avg_daily_sales_change"`
	TotalOrdersChange   int `json:"total_orders_change"`
	AvgOrderValueChange int `json:"avg_order_value_change"`
	GrossProfitChange   int `json:"gross_profit_change"`
	ProfitMarginChange  int `json:"profit_margin_change"`
}

// Dataset 單一數列
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData 圖表資料：標籤軸加上若干數列
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// SalesData 銷售報表的原始回應
type SalesData struct {
	Chart   ChartData `json:"chart"`
	Metrics Metrics   `json:"metrics"`
}

// InventoryStatus 庫存狀態分類，由上游預先標記
type InventoryStatus string

const (
	StatusNormal   InventoryStatus = "normal"
	StatusLow      InventoryStatus = "low"
	StatusCritical InventoryStatus = "critical"
	StatusDepleted InventoryStatus = "depleted"
)

// InventoryItem 報表視圖的庫存品項
type InventoryItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  float64         `json:"quantity"`
	Unit      string          `json:"unit"`
	UsageRate float64         `json:"usage_rate"`
	Status    InventoryStatus `json:"status"`
}

// InventoryBuckets 依狀態分組後的庫存品項，四組互斥
type InventoryBuckets struct {
	Normal   []InventoryItem `json:"normal"`
	Low      []InventoryItem `json:"low"`
	Critical []InventoryItem `json:"critical"`
	Depleted []InventoryItem `json:"depleted"`
}

// Counts 各組數量
func (b InventoryBuckets) Counts() map[InventoryStatus]int {
	return map[InventoryStatus]int{
		StatusNormal:   len(b.Normal),
		StatusLow:      len(b.Low),
		StatusCritical: len(b.Critical),
		StatusDepleted: len(b.Depleted),
	}
}

// Store 遠端資料庫對報表資料的操作介面
type Store interface {
	GetSalesData(ctx context.Context, r DateRange) (SalesData, error)
	GetTopDishes(ctx context.Context, r DateRange) (ChartData, error)
	GetInventoryUsage(ctx context.Context, r DateRange) (ChartData, error)
	GetInventoryItems(ctx context.Context) ([]InventoryItem, error)
}
