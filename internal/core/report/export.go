package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// 匯出檔的標頭列固定不變，欄位順序與既有試算表流程相容
var (
	SalesExportHeader     = []string{"Date", "Revenue", "Orders", "Average Order"}
	TopDishesExportHeader = []string{"Rank", "Dish", "Units Sold", "Revenue"}
)

// BuildSalesRows 把銷售圖表轉成匯出列，一個標籤對應一列
// 數列順序：0=營收、1=訂單數、2=平均客單價；缺漏的索引補 0
func BuildSalesRows(chart ChartData) [][]string {
	rows := make([][]string, 0, len(chart.Labels))
	for i, label := range chart.Labels {
		revenue := datasetValue(chart, 0, i)
		orders := datasetValue(chart, 1, i)
		avgOrder := datasetValue(chart, 2, i)
		rows = append(rows, []string{
			label,
			formatAmount(revenue),
			strconv.Itoa(int(orders)),
			formatAmount(avgOrder),
		})
	}
	return rows
}

// BuildTopDishesRows 把熱門品項圖表轉成匯出列
// 數列順序：0=銷售份數、1=營收
func BuildTopDishesRows(chart ChartData) [][]string {
	rows := make([][]string, 0, len(chart.Labels))
	for i, label := range chart.Labels {
		units := datasetValue(chart, 0, i)
		revenue := datasetValue(chart, 1, i)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			label,
			strconv.Itoa(int(units)),
			formatAmount(revenue),
		})
	}
	return rows
}

// WriteCSV 寫出標頭與資料列
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// datasetValue 取出指定數列在某索引的值，數列或索引不存在時回傳 0
func datasetValue(chart ChartData, dataset, index int) float64 {
	if dataset >= len(chart.Datasets) {
		return 0
	}
	data := chart.Datasets[dataset].Data
	if index >= len(data) {
		return 0
	}
	return data[index]
}

// formatAmount 金額固定兩位小數
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
