// Package export renders inventory reports.
package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/marlanuera/CA1-Code/internal/models"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var inventoryHeaders = []string{"ID", "Product", "Category", "Price", "Stock", "Image"}

// InventoryWorkbook builds a single-sheet workbook listing products.
func InventoryWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range inventoryHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetValue(p.ProductName)
		row.AddCell().SetValue(p.Category)
		price, _ := p.Price.Round(2).Float64()
		row.AddCell().SetFloatWithFormat(price, "0.00")
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetValue(p.Image)
	}
	return file, nil
}

func WriteInventory(w io.Writer, products []models.Product) error {
	file, err := InventoryWorkbook(products)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
