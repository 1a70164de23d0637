package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrogeon/repartkey/core/stats"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	sum := stats.Summary{
		AutoConsumption:      []stats.Rate{{ID: "P1", Name: "Roof", Value: 87.5}},
		AutoProduction:       []stats.Rate{{ID: "C1", Name: "Home", Err: "zero"}},
		GlobalAutoProduction: stats.Rate{Value: 42},
	}
	require.NoError(t, printSummary(&buf, sum))
	out := buf.String()
	assert.Contains(t, out, "87.5 %")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "42.0 %")
}

func TestPrintMonths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMonths(&buf, []stats.Record{{Month: 2, ConsumerID: "C1", ConsumptionKWh: 6, AutoConsumptionKWh: 4, AutoProductionRate: 66.66}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"2", "C1", "6", "4", "66.66"}, strings.Fields(lines[1]))
}

func TestComputeCommand(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	write("p.csv", "Horodate;Valeur\n01.01 00:00;100\n01.01 00:15;50\n")
	write("c.csv", "Horodate;Valeur\n01.01 00:00;30\n01.01 00:15;30\n")
	write("config.yaml", `project:
  producers:
    - {name: Roof, id: P1, file: p.csv}
  consumers:
    - {name: Home, id: C1, file: c.csv}
repartition:
  workers: 1
export:
  folder: `+filepath.Join(dir, "out")+`
`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"-c", filepath.Join(dir, "config.yaml"), "months", "P1"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "MONTH")
	assert.FileExists(t, filepath.Join(dir, "out", "P1.csv"))

	buf.Reset()
	rootCmd.SetArgs([]string{"-c", filepath.Join(dir, "config.yaml"), "compute", "--strategy", "dynamic"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "(dynamic): 2 slots")
}
