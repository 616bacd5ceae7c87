package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type excelGuestParser struct{}

// NewExcelGuestParser parser de listas de invitados en Excel
func NewExcelGuestParser() repository.GuestParser {
	return &excelGuestParser{}
}

// ParseGuests lee invitados desde un fichero Excel
func (e *excelGuestParser) ParseGuests(ctx context.Context, filePath string) ([]entity.Guest, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el excel: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// ParseGuestsFromBytes parsea el fichero recibido como bytes
func (e *excelGuestParser) ParseGuestsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Guest, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el excel %q: %w", filename, err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

func (e *excelGuestParser) parseExcelFile(f *excelize.File) ([]entity.Guest, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el excel no tiene hojas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("no se pudieron leer las filas: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("el excel está vacío")
	}

	log.Printf("Importando invitados: %d filas en %q", len(rows), sheets[0])

	// Si la primera fila contiene cabeceras reconocibles, se mapean las
	// columnas; si no, se asume nombre, teléfono, dirección, acompañantes, mesa.
	columnMap := e.mapColumns(rows[0])
	startRow := 1
	if len(columnMap) == 0 {
		columnMap = map[string]int{"name": 0, "phone": 1, "address": 2, "companions": 3, "table": 4}
		startRow = 0
		log.Printf("Sin cabecera reconocible, usando columnas por posición")
	}

	nameCol, ok := columnMap["name"]
	if !ok {
		nameCol = 0
	}

	var guests []entity.Guest
	base := time.Now().UnixMilli()
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		name := cell(row, nameCol)
		if name == "" {
			continue
		}

		guest := entity.Guest{
			ID:       fmt.Sprintf("guest-%d", base+int64(i)),
			Name:     name,
			Response: "Pendiente",
		}
		if idx, ok := columnMap["phone"]; ok {
			guest.Phone = cell(row, idx)
		}
		if idx, ok := columnMap["address"]; ok {
			guest.Address = cell(row, idx)
		}
		if idx, ok := columnMap["companions"]; ok {
			if n, err := strconv.Atoi(cell(row, idx)); err == nil && n >= 0 {
				guest.Companions = n
			}
		}
		if idx, ok := columnMap["table"]; ok {
			guest.Table = cell(row, idx)
		}
		guests = append(guests, guest)
	}

	if len(guests) == 0 {
		return nil, fmt.Errorf("no se encontraron invitados en el excel")
	}
	return guests, nil
}

// mapColumns localiza cada columna por las palabras de su cabecera
func (e *excelGuestParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case contains(h, "nombre", "invitado", "name", "guest"):
			setIfAbsent(columnMap, "name", i)
		case contains(h, "tel", "móvil", "movil", "phone"):
			setIfAbsent(columnMap, "phone", i)
		case contains(h, "direc", "address", "domicilio"):
			setIfAbsent(columnMap, "address", i)
		case contains(h, "acompa", "companion", "plus"):
			setIfAbsent(columnMap, "companions", i)
		case contains(h, "mesa", "table"):
			setIfAbsent(columnMap, "table", i)
		}
	}
	return columnMap
}

func setIfAbsent(m map[string]int, key string, idx int) {
	if _, ok := m[key]; !ok {
		m[key] = idx
	}
}

func contains(str string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(str, kw) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
