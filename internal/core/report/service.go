package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resto-manager/internal/core/cache"
	"resto-manager/internal/pkg/common"

	"go.uber.org/zap"
)

const cacheScope = "report"

// SalesReport 銷售報表：當期指標、前期指標與逐項百分比變化
type SalesReport struct {
	Range      DateRange        `json:"range"`
	Previous   DateRange        `json:"previous_range"`
	Chart      ChartData        `json:"chart"`
	Metrics    Metrics          `json:"metrics"`
	PrevTotals Metrics          `json:"previous_metrics"`
	Comparison PeriodComparison `json:"comparison"`
}

// InventoryReport 庫存報表：狀態分組、各組數量與緊急品項預覽
type InventoryReport struct {
	Buckets  InventoryBuckets        `json:"buckets"`
	Counts   map[InventoryStatus]int `json:"counts"`
	Critical []InventoryItem         `json:"critical_preview"`
	Usage    ChartData               `json:"usage"`
}

// Service 報表服務
// --------------------------------------------------
type Service struct {
	store        Store
	cacheManager *cache.CacheManager

	// 快速切換日期範圍時，晚到的舊回應不得覆蓋新結果
	mu         sync.Mutex
	nextGen    uint64
	appliedGen uint64
}

// NewService 創建新的報表服務
func NewService(store Store, cacheManager *cache.CacheManager) *Service {
	return &Service{
		store:        store,
		cacheManager: cacheManager,
	}
}

// Sales 彙總指定日期範圍的銷售報表，失敗時不自動重試，由呼叫端重新發起
func (s *Service) Sales(ctx context.Context, r DateRange) (*SalesReport, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}

	fingerprint := rangeFingerprint("sales", r)
	if s.cacheManager != nil {
		if cached, ok := s.cacheManager.Get(ctx, cacheScope, fingerprint); ok {
			var report SalesReport
			if err := common.ParseJSON(cached, &report); err == nil {
				return &report, nil
			}
		}
	}

	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	previous := PreviousPeriod(r)

	current, err := s.store.GetSalesData(ctx, r)
	if err != nil {
		common.LogError("抓取銷售資料失敗", zap.Time("from", r.From), zap.Time("to", r.To), zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得銷售資料", common.ErrStoreUnavailable.Status, err)
	}

	prev, err := s.store.GetSalesData(ctx, previous)
	if err != nil {
		common.LogError("抓取前期銷售資料失敗", zap.Time("from", previous.From), zap.Time("to", previous.To), zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得前期銷售資料", common.ErrStoreUnavailable.Status, err)
	}

	s.mu.Lock()
	if gen < s.appliedGen {
		s.mu.Unlock()
		common.LogDebug("丟棄過期的報表結果", zap.Uint64("generation", gen))
		return nil, common.NewError(common.ErrCodeRequestTimeout, "查詢已被較新的請求取代", common.ErrRequestTimeout.Status, nil)
	}
	s.appliedGen = gen
	s.mu.Unlock()

	report := &SalesReport{
		Range:      r,
		Previous:   previous,
		Chart:      current.Chart,
		Metrics:    current.Metrics,
		PrevTotals: prev.Metrics,
		Comparison: ComparePeriods(current.Metrics, prev.Metrics),
	}

	if s.cacheManager != nil {
		if data, err := common.ToJSON(report); err == nil {
			s.cacheManager.Set(ctx, cacheScope, fingerprint, data)
		}
	}

	return report, nil
}

// TopDishes 取得指定範圍的熱門品項圖表
func (s *Service) TopDishes(ctx context.Context, r DateRange) (ChartData, error) {
	if err := validateRange(r); err != nil {
		return ChartData{}, err
	}

	fingerprint := rangeFingerprint("top-dishes", r)
	if s.cacheManager != nil {
		if cached, ok := s.cacheManager.Get(ctx, cacheScope, fingerprint); ok {
			var chart ChartData
			if err := common.ParseJSON(cached, &chart); err == nil {
				return chart, nil
			}
		}
	}

	chart, err := s.store.GetTopDishes(ctx, r)
	if err != nil {
		common.LogError("抓取熱門品項失敗", zap.Error(err))
		return ChartData{}, common.NewError(common.ErrCodeStoreUnavailable, "無法取得熱門品項資料", common.ErrStoreUnavailable.Status, err)
	}

	if s.cacheManager != nil {
		if data, err := common.ToJSON(chart); err == nil {
			s.cacheManager.Set(ctx, cacheScope, fingerprint, data)
		}
	}

	return chart, nil
}

// Inventory 彙總庫存報表：分組、數量與緊急預覽
func (s *Service) Inventory(ctx context.Context, r DateRange) (*InventoryReport, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}

	items, err := s.store.GetInventoryItems(ctx)
	if err != nil {
		common.LogError("抓取庫存品項失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得庫存資料", common.ErrStoreUnavailable.Status, err)
	}

	usage, err := s.store.GetInventoryUsage(ctx, r)
	if err != nil {
		common.LogError("抓取庫存消耗失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得庫存消耗資料", common.ErrStoreUnavailable.Status, err)
	}

	buckets := BucketInventory(items)
	return &InventoryReport{
		Buckets:  buckets,
		Counts:   buckets.Counts(),
		Critical: CriticalPreview(items),
		Usage:    usage,
	}, nil
}

// ExportSales 匯出銷售報表為 CSV 列
func (s *Service) ExportSales(ctx context.Context, r DateRange) ([]string, [][]string, error) {
	report, err := s.Sales(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	return SalesExportHeader, BuildSalesRows(report.Chart), nil
}

// ExportTopDishes 匯出熱門品項為 CSV 列
func (s *Service) ExportTopDishes(ctx context.Context, r DateRange) ([]string, [][]string, error) {
	chart, err := s.TopDishes(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	return TopDishesExportHeader, BuildTopDishesRows(chart), nil
}

// validateRange 日期範圍必須 from <= to
func validateRange(r DateRange) error {
	if r.From.IsZero() || r.To.IsZero() {
		return common.NewError(common.ErrCodeInvalidDateRange, "日期範圍不可為空", common.ErrInvalidDateRange.Status, nil)
	}
	if r.To.Before(r.From) {
		return common.NewError(common.ErrCodeInvalidDateRange, "結束日期不可早於開始日期", common.ErrInvalidDateRange.Status, nil)
	}
	return nil
}

// rangeFingerprint 以日期範圍生成快取指紋
func rangeFingerprint(kind string, r DateRange) string {
	return fmt.Sprintf("%s:%s:%s", kind, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
}
