package leads

import (
	"fmt"

	"quote-service/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the lead book as a spreadsheet for the sales team.
func ExportXLSX(records []model.Lead) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	headers := []interface{}{
		"ID", "Name", "City", "Mobile", "Email",
		"Product", "Quote Low", "Quote High", "Delivered", "Channel", "Created",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	row := 2
	for _, l := range records {
		values := []interface{}{
			l.ID, l.Name, l.City, l.Mobile, l.Email,
			l.ProductID, l.QuoteLow, l.QuoteHigh, l.Delivered, l.DeliveredVia,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return f, nil
}
