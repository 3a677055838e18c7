package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resto-manager/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	// 測試時不輸出日誌
	common.Logger = zap.NewNop()
}

type fakeReportStore struct {
	salesByRange map[string]SalesData
	salesErr     error
	topDishes    ChartData
	usage        ChartData
	items        []InventoryItem
	itemsErr     error
}

func rangeKey(r DateRange) string {
	return r.From.Format(time.DateOnly) + "/" + r.To.Format(time.DateOnly)
}

func (s *fakeReportStore) GetSalesData(ctx context.Context, r DateRange) (SalesData, error) {
	if s.salesErr != nil {
		return SalesData{}, s.salesErr
	}
	return s.salesByRange[rangeKey(r)], nil
}

func (s *fakeReportStore) GetTopDishes(ctx context.Context, r DateRange) (ChartData, error) {
	return s.topDishes, nil
}

func (s *fakeReportStore) GetInventoryUsage(ctx context.Context, r DateRange) (ChartData, error) {
	return s.usage, nil
}

func (s *fakeReportStore) GetInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	if s.itemsErr != nil {
		return nil, s.itemsErr
	}
	return s.items, nil
}

func TestService_Sales(t *testing.T) {
	current := DateRange{From: day("2024-01-08"), To: day("2024-01-15")}
	previous := DateRange{From: day("2024-01-01"), To: day("2024-01-07")}

	store := &fakeReportStore{
		salesByRange: map[string]SalesData{
			rangeKey(current): {
				Metrics: Metrics{TotalSales: 2000, TotalOrders: 100, AvgOrderValue: 20},
				Chart:   ChartData{Labels: []string{"2024-01-08"}},
			},
			rangeKey(previous): {
				Metrics: Metrics{TotalSales: 1000, TotalOrders: 80, AvgOrderValue: 12.5},
			},
		},
	}
	svc := NewService(store, nil)

	got, err := svc.Sales(context.Background(), current)

	require.NoError(t, err)
	// 前期為緊鄰在前的等長期間
	assert.Equal(t, "2024-01-01", got.Previous.From.Format(time.DateOnly))
	assert.Equal(t, "2024-01-07", got.Previous.To.Format(time.DateOnly))
	assert.Equal(t, 100, got.Comparison.TotalSalesChange)
	assert.Equal(t, 25, got.Comparison.TotalOrdersChange)
	assert.Equal(t, float64(2000), got.Metrics.TotalSales)
	assert.Equal(t, float64(1000), got.PrevTotals.TotalSales)
}

func TestService_Sales_InvalidRange(t *testing.T) {
	svc := NewService(&fakeReportStore{}, nil)

	tests := []struct {
		name string
		r    DateRange
	}{
		{name: "zero range", r: DateRange{}},
		{name: "to before from", r: DateRange{From: day("2024-01-15"), To: day("2024-01-08")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Sales(context.Background(), tt.r)
			require.Error(t, err)
			var ce *common.CustomError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, common.ErrCodeInvalidDateRange, ce.Code)
		})
	}
}

func TestService_Sales_StoreError(t *testing.T) {
	store := &fakeReportStore{salesErr: errors.New("gateway timeout")}
	svc := NewService(store, nil)

	_, err := svc.Sales(context.Background(), DateRange{From: day("2024-01-08"), To: day("2024-01-15")})

	require.Error(t, err)
	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.ErrCodeStoreUnavailable, ce.Code)
}

func TestService_Inventory(t *testing.T) {
	store := &fakeReportStore{
		items: []InventoryItem{
			{ID: "1", Status: StatusNormal},
			{ID: "2", Status: StatusCritical},
			{ID: "3", Status: StatusDepleted},
		},
		usage: ChartData{Labels: []string{"2024-01-08"}},
	}
	svc := NewService(store, nil)

	got, err := svc.Inventory(context.Background(), DateRange{From: day("2024-01-08"), To: day("2024-01-15")})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Counts[StatusNormal])
	assert.Equal(t, 1, got.Counts[StatusCritical])
	assert.Equal(t, 1, got.Counts[StatusDepleted])
	assert.Len(t, got.Critical, 2)
	assert.Equal(t, []string{"2024-01-08"}, got.Usage.Labels)
}

func TestService_ExportSales(t *testing.T) {
	current := DateRange{From: day("2024-01-08"), To: day("2024-01-15")}
	previous := PreviousPeriod(current)

	store := &fakeReportStore{
		salesByRange: map[string]SalesData{
			rangeKey(current): {
				Chart: ChartData{
					Labels: []string{"2024-01-08"},
					Datasets: []Dataset{
						{Label: "Revenue", Data: []float64{300}},
						{Label: "Orders", Data: []float64{10}},
						{Label: "Average Order", Data: []float64{30}},
					},
				},
			},
			rangeKey(previous): {},
		},
	}
	svc := NewService(store, nil)

	header, rows, err := svc.ExportSales(context.Background(), current)

	require.NoError(t, err)
	assert.Equal(t, SalesExportHeader, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2024-01-08", "300.00", "10", "30.00"}, rows[0])
}

// slowFirstSalesStore 第一次銷售查詢會卡住，直到 releaseFirst 關閉
type slowFirstSalesStore struct {
	fakeReportStore

	mu           sync.Mutex
	calls        int
	firstStarted chan struct{}
	releaseFirst chan struct{}
}

func (s *slowFirstSalesStore) GetSalesData(ctx context.Context, r DateRange) (SalesData, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()

	if n == 1 {
		close(s.firstStarted)
		<-s.releaseFirst
	}
	return SalesData{Metrics: Metrics{TotalSales: float64(n)}}, nil
}

func TestService_Sales_StaleFetchRejected(t *testing.T) {
	r := DateRange{From: day("2024-01-08"), To: day("2024-01-15")}
	store := &slowFirstSalesStore{
		firstStarted: make(chan struct{}),
		releaseFirst: make(chan struct{}),
	}
	svc := NewService(store, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Sales(context.Background(), r)
		firstDone <- err
	}()

	// 等第一次查詢進入遠端呼叫後才發起第二次
	<-store.firstStarted
	report, err := svc.Sales(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, report)

	// 放行第一次查詢：它已被較新的請求取代，必須被拒絕
	close(store.releaseFirst)
	err = <-firstDone
	require.Error(t, err)
	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeRequestTimeout, customErr.Code)
}
