package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vrogeon/repartkey/core/repartition"
)

// sheetName returns a valid, unique worksheet name for a producer.
func sheetName(id string, index int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, id)
	if name == "" {
		name = fmt.Sprintf("producer%d", index+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	if used[strings.ToLower(name)] {
		name = fmt.Sprintf("%.27s_%d", name, index+1)
	}
	used[strings.ToLower(name)] = true
	return name
}

// WriteKeysXLSX writes a workbook holding one sheet of keys per producer.
func WriteKeysXLSX(w io.Writer, run *repartition.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	for pi, p := range run.Producers {
		sheet := sheetName(p.ID, pi, used)
		if pi == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := []any{"Horodate"}
		for _, c := range run.Consumers {
			header = append(header, c.ID)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		for si, s := range run.Slots {
			row := make([]any, 0, len(s.Consumers)+1)
			row = append(row, s.Label)
			for _, c := range s.Consumers {
				row = append(row, c.Params[pi].Key)
			}
			cell, err := excelize.CoordinatesToCellName(1, si+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
