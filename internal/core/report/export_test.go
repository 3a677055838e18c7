package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSalesRows(t *testing.T) {
	t.Parallel()

	chart := ChartData{
		Labels: []string{"2024-01-01", "2024-01-02"},
		Datasets: []Dataset{
			{Label: "Revenue", Data: []float64{1250.5, 980}},
			{Label: "Orders", Data: []float64{42, 31}},
			{Label: "Average Order", Data: []float64{29.77, 31.61}},
		},
	}

	rows := BuildSalesRows(chart)

	// 列數等於標籤數
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-01", "1250.50", "42", "29.77"}, rows[0])
	assert.Equal(t, []string{"2024-01-02", "980.00", "31", "31.61"}, rows[1])
}

func TestBuildSalesRows_MissingDatasets(t *testing.T) {
	t.Parallel()

	chart := ChartData{
		Labels: []string{"2024-01-01"},
		Datasets: []Dataset{
			{Label: "Revenue", Data: []float64{500}},
			// 訂單數與客單價數列缺漏，補 0
		},
	}

	rows := BuildSalesRows(chart)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2024-01-01", "500.00", "0", "0.00"}, rows[0])
}

func TestBuildTopDishesRows(t *testing.T) {
	t.Parallel()

	chart := ChartData{
		Labels: []string{"Carbonara", "Tiramisu", "Espresso"},
		Datasets: []Dataset{
			{Label: "Units Sold", Data: []float64{120, 95, 80}},
			{Label: "Revenue", Data: []float64{2160, 760, 240}},
		},
	}

	rows := BuildTopDishesRows(chart)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "Carbonara", "120", "2160.00"}, rows[0])
	assert.Equal(t, []string{"2", "Tiramisu", "95", "760.00"}, rows[1])
	assert.Equal(t, []string{"3", "Espresso", "80", "240.00"}, rows[2])
}

func TestWriteCSV_HeaderOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rows := [][]string{{"2024-01-01", "100.00", "5", "20.00"}}
	require.NoError(t, WriteCSV(&buf, SalesExportHeader, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 欄位順序固定，下游試算表流程依賴這個順序
	assert.Equal(t, []string{"Date", "Revenue", "Orders", "Average Order"}, records[0])
	assert.Equal(t, rows[0], records[1])
}
