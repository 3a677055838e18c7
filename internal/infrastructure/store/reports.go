package store

import (
	"context"
	"fmt"
	"time"

	"resto-manager/internal/core/report"
)

// rangeParams 把日期範圍轉為查詢參數
func rangeParams(r report.DateRange) map[string]string {
	return map[string]string{
		"from": r.From.Format(time.DateOnly),
		"to":   r.To.Format(time.DateOnly),
	}
}

// GetSalesData 取得指定範圍的銷售圖表與彙總指標
func (c *Client) GetSalesData(ctx context.Context, r report.DateRange) (report.SalesData, error) {
	start := time.Now()
	var data report.SalesData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(rangeParams(r)).
		SetResult(&data).
		Get("/reports/sales")
	if err != nil {
		return report.SalesData{}, fmt.Errorf("get sales data: %w", err)
	}
	if err := checkResponse(resp, "get_sales_data", start); err != nil {
		return report.SalesData{}, err
	}

	return data, nil
}

// GetTopDishes 取得指定範圍的熱門品項圖表
func (c *Client) GetTopDishes(ctx context.Context, r report.DateRange) (report.ChartData, error) {
	start := time.Now()
	var chart report.ChartData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(rangeParams(r)).
		SetResult(&chart).
		Get("/reports/top-dishes")
	if err != nil {
		return report.ChartData{}, fmt.Errorf("get top dishes: %w", err)
	}
	if err := checkResponse(resp, "get_top_dishes", start); err != nil {
		return report.ChartData{}, err
	}

	return chart, nil
}

// GetInventoryUsage 取得指定範圍的庫存消耗圖表
func (c *Client) GetInventoryUsage(ctx context.Context, r report.DateRange) (report.ChartData, error) {
	start := time.Now()
	var chart report.ChartData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(rangeParams(r)).
		SetResult(&chart).
		Get("/reports/inventory-usage")
	if err != nil {
		return report.ChartData{}, fmt.Errorf("get inventory usage: %w", err)
	}
	if err := checkResponse(resp, "get_inventory_usage", start); err != nil {
		return report.ChartData{}, err
	}

	return chart, nil
}

// GetInventoryItems 取得庫存品項，狀態由遠端預先分類
func (c *Client) GetInventoryItems(ctx context.Context) ([]report.InventoryItem, error) {
	start := time.Now()
	var items []report.InventoryItem

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&items).
		Get("/inventory/items")
	if err != nil {
		return nil, fmt.Errorf("get inventory items: %w", err)
	}
	if err := checkResponse(resp, "get_inventory_items", start); err != nil {
		return nil, err
	}

	return items, nil
}
