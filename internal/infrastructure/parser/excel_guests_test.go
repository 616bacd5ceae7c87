package parser

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildExcel(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseGuestsFromBytes_ConCabecera(t *testing.T) {
	data := buildExcel(t, [][]any{
		{"Nombre", "Teléfono", "Dirección", "Acompañantes", "Mesa"},
		{"Ana García", "600111222", "C/ Mayor 1", 2, "3"},
		{"Carlos Ruiz", "", "", "", ""},
	})

	guests, err := NewExcelGuestParser().ParseGuestsFromBytes(context.Background(), data, "invitados.xlsx")
	require.NoError(t, err)
	require.Len(t, guests, 2)

	require.Equal(t, "Ana García", guests[0].Name)
	require.Equal(t, "600111222", guests[0].Phone)
	require.Equal(t, "C/ Mayor 1", guests[0].Address)
	require.Equal(t, 2, guests[0].Companions)
	require.Equal(t, "3", guests[0].Table)
	require.Equal(t, "Pendiente", guests[0].Response)
	require.Contains(t, guests[0].ID, "guest-")

	require.Equal(t, "Carlos Ruiz", guests[1].Name)
	require.Zero(t, guests[1].Companions)
	require.NotEqual(t, guests[0].ID, guests[1].ID)
}

func TestParseGuestsFromBytes_SinCabeceraUsaPosiciones(t *testing.T) {
	data := buildExcel(t, [][]any{
		{"Ana García", "600111222", "C/ Mayor 1", 1, "2"},
		{"Carlos Ruiz", "600333444", "", 0, ""},
	})

	guests, err := NewExcelGuestParser().ParseGuestsFromBytes(context.Background(), data, "invitados.xlsx")
	require.NoError(t, err)
	require.Len(t, guests, 2)
	require.Equal(t, "Ana García", guests[0].Name)
	require.Equal(t, 1, guests[0].Companions)
	require.Equal(t, "600333444", guests[1].Phone)
}

func TestParseGuestsFromBytes_SaltaFilasVacias(t *testing.T) {
	data := buildExcel(t, [][]any{
		{"Nombre", "Mesa"},
		{"", ""},
		{"Lucía", "1"},
	})

	guests, err := NewExcelGuestParser().ParseGuestsFromBytes(context.Background(), data, "invitados.xlsx")
	require.NoError(t, err)
	require.Len(t, guests, 1)
	require.Equal(t, "Lucía", guests[0].Name)
	require.Equal(t, "1", guests[0].Table)
}

func TestParseGuestsFromBytes_SinInvitados(t *testing.T) {
	data := buildExcel(t, [][]any{
		{"Nombre", "Mesa"},
	})

	_, err := NewExcelGuestParser().ParseGuestsFromBytes(context.Background(), data, "invitados.xlsx")
	require.Error(t, err)
}

func TestParseGuestsFromBytes_FicheroCorrupto(t *testing.T) {
	_, err := NewExcelGuestParser().ParseGuestsFromBytes(context.Background(), []byte("esto no es un excel"), "malo.xlsx")
	require.Error(t, err)
}
