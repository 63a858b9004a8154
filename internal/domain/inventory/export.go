package inventory

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetCows    = "Cows"
	sheetHistory = "History"
	sheetMilk    = "Milk"

	exportTimeLayout = "2006-01-02 15:04"
	exportDateLayout = "2006-01-02"
)

// Export escribe un xlsx con el inventario de vacas, el historial y la leche por vaca.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	inv, err := s.CowInventory(ctx)
	if err != nil {
		return err
	}
	history, err := s.History(ctx, HistoryFilter{})
	if err != nil {
		return err
	}
	milk, err := s.MilkInventory(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCows); err != nil {
		return err
	}
	for _, name := range []string{sheetHistory, sheetMilk} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	cowRows := [][]any{
		{"Total alive", "Male", "Female", "Sold", "Dead", "Last update"},
		{inv.TotalAlive, inv.Male, inv.Female, inv.Sold, inv.Dead, inv.LastUpdate.Format(exportTimeLayout)},
	}
	if err := writeSheet(f, sheetCows, header, cowRows); err != nil {
		return err
	}

	historyRows := [][]any{{"Number of cows", "Date updated"}}
	for _, h := range history {
		historyRows = append(historyRows, []any{h.NumberOfCows, h.DateUpdated.Format(exportTimeLayout)})
	}
	if err := writeSheet(f, sheetHistory, header, historyRows); err != nil {
		return err
	}

	milkRows := [][]any{{"Cow ID", "Cow name", "Total kgs", "Records", "Last milking date"}}
	for _, c := range milk.Cows {
		last := ""
		if c.LastMilkingDate != nil {
			last = c.LastMilkingDate.Format(exportDateLayout)
		}
		milkRows = append(milkRows, []any{c.CowID, c.CowName, c.TotalKgs, c.Records, last})
	}
	milkRows = append(milkRows, []any{"Total", "", milk.TotalKgs, milk.Records, ""})
	if err := writeSheet(f, sheetMilk, header, milkRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
