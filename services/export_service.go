package services

import (
	"bytes"
	"fmt"
	"time"

	"lexdesk_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportClientBalances builds an XLSX workbook of clients with outstanding
// balances plus a grand total row
func ExportClientBalances(db *gorm.DB) (*bytes.Buffer, error) {
	balances, total, err := ClientBalances(db)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Balances"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Client", "Outstanding Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, b := range balances {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.ClientName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Outstanding)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), total)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportClients builds an XLSX workbook of the (optionally filtered) client list
func ExportClients(db *gorm.DB, filter *ClientFilter) (*bytes.Buffer, error) {
	var clients []models.Client
	if err := db.Order("last_name ASC, first_name ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	clients = FilterClients(clients, filter)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Clients"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Preferred Contact", "Portal", "Active", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, c := range clients {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.FullName())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.Email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.PreferredContactMethod)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), c.PortalEnabled)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), c.IsActive)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), c.CreatedAt.Format("2006-01-02"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportFilename names an export file with the current date
func ExportFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
}
