package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

func testRun(t *testing.T) *repartition.Run {
	t.Helper()
	labels := []string{"31.01 23:45", "01.02 00:00"}
	pts := func(values ...float64) []model.Point {
		out := make([]model.Point, len(values))
		for i, v := range values {
			out[i] = model.Point{Slot: labels[i], Value: v}
		}
		return out
	}
	producers := []model.Producer{{Name: "Roof", ID: "P1", Points: pts(100, 50)}}
	consumers := []model.Consumer{
		{Name: "Bakery", ID: "A", Priorities: []int{0}, Ratios: []float64{100}, Points: pts(30, 30)},
		{Name: "School", ID: "B", Priorities: []int{0}, Ratios: []float64{100}, Points: pts(70, 70)},
	}
	run, err := repartition.NewEngine(nil, 1).Build(context.Background(), producers, consumers, repartition.ProportionalStrategy{})
	require.NoError(t, err)
	return run
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = Separator
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	require.NoError(t, err)
	return recs
}

func TestWriteKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKeys(&buf, testRun(t), 0))
	assert.Equal(t, "Horodate;A;B\n31.01 23:45;30,0;70,0\n01.02 00:00;30,0;70,0\n", buf.String())

	assert.Error(t, WriteKeys(&buf, testRun(t), 1))
}

func TestWriteStatistics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, testRun(t), 0, DefaultStatisticsOptions()))
	recs := readCSV(t, buf.String())
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Horodate", "Roof", "Bakery\nauto_cons", "School\nauto_cons", "auto_cons_rate"}, recs[0])
	assert.Equal(t, []string{"31.01 23:45", "100", "30,00", "70,00", "100"}, recs[1])
	assert.Equal(t, []string{"01.02 00:00", "50", "15,00", "35,00", "100"}, recs[2])

	buf.Reset()
	require.NoError(t, WriteStatistics(&buf, testRun(t), 0, StatisticsOptions{Consumption: true, AutoProductionRate: true}))
	recs = readCSV(t, buf.String())
	assert.Equal(t, []string{"Horodate", "Roof", "Bakery\ncons", "Bakery\nauto_prod_rate", "School\ncons", "School\nauto_prod_rate", "auto_cons_rate"}, recs[0])
	assert.Equal(t, []string{"01.02 00:00", "50", "30", "50", "70", "50", "100"}, recs[2])
}

func TestWriteMonthlyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyReport(&buf, testRun(t), 0, DefaultMonthlyOptions()))
	recs := readCSV(t, buf.String())
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Horodate", "Roof\n prod",
		"Bakery\ncons_mois", "Bakery\nauto_prod_rate", "Bakery\nauto_cons_mois",
		"School\ncons_mois", "School\nauto_prod_rate", "School\nauto_cons_mois"}, recs[0])
	assert.Equal(t, []string{"31.01 23:45", "0", "0", "100,00", "0", "0", "100,00", "0"}, recs[1])
	assert.Equal(t, []string{"01.02 00:00", "0", "0", "50,00", "0", "0", "50,00", "0"}, recs[2])
}

func TestWriteKeysXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKeysXLSX(&buf, testRun(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("P1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Horodate", "A", "B"}, rows[0])
	assert.Equal(t, []string{"31.01 23:45", "30", "70"}, rows[1])
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a_b", sheetName("a/b", 0, used))
	assert.Equal(t, "A_B_2", sheetName("A/B", 1, used))
	assert.Equal(t, "producer3", sheetName("", 2, used))
	assert.Len(t, sheetName(strings.Repeat("x", 40), 3, used), 31)
}

func TestWriteSummaryPDF(t *testing.T) {
	run := testRun(t)
	rows, err := stats.MonthlyRollup(run, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryPDF(&buf, stats.Summarize(run), map[string][]stats.MonthRow{"P1": rows}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteSummaryJSON(t *testing.T) {
	run := testRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, stats.Summarize(run)))

	var got stats.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, run.ID, got.RunID)
	assert.Equal(t, 100.0, got.AutoConsumption[0].Value)
}

func TestExportRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := DefaultOptions()
	opts.Formats = []string{FormatCSV, FormatXLSX, FormatPDF, FormatJSON}

	files, err := ExportRun(dir, testRun(t), opts)
	require.NoError(t, err)
	want := []string{"P1.csv", "P1_statistics.csv", "P1_monthly_report.csv", "keys.xlsx", "summary.pdf", "summary.json"}
	require.Len(t, files, len(want))
	for i, name := range want {
		assert.Equal(t, filepath.Join(dir, name), files[i])
		_, err := os.Stat(files[i])
		assert.NoError(t, err)
	}

	_, err = ExportRun(dir, testRun(t), Options{Formats: []string{"docx"}})
	assert.Error(t, err)
}

func TestComma(t *testing.T) {
	assert.Equal(t, "30,0", comma(30, 1))
	assert.Equal(t, "66,66", comma(66.66, 2))
	assert.Equal(t, "12,5", commaShort(12.5))
	assert.Equal(t, "7", commaShort(7))
}
