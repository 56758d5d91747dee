package infra

import (
	"bytes"
	"fmt"
	"strconv"

	"oficialia/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarPDFRequisicion produce el formato imprimible de la requisición, con
// encabezado, tabla de líneas y espacios de firma.
func GenerarPDFRequisicion(r *model.Requisicion) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Requisición de Material"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Folio: %s", r.Folio)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	solicitante := r.CreadoPor.Data()
	campos := [][2]string{
		{"Fecha de solicitud", r.FechaSolicitud},
		{"Órgano requirente", r.OrganoRequirente},
		{"Área", r.Area},
		{"Solicitante", solicitante.Nombre},
		{"Responsable", r.ResponsableNombre},
		{"Dirección de entrega", r.DireccionEntrega},
		{"Tipo de material", r.TipoMaterial},
		{"Justificación", r.Justificacion},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, c := range campos {
		if c[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(45, 6, tr(c[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 6, tr(c[1]), "", "L", false)
	}
	pdf.Ln(4)

	// Tabla de líneas
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, tr("Cant."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, tr("Aut."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, tr("Unidad"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 7, tr("Concepto"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, l := range r.Lineas {
		autorizada := "-"
		if l.CantidadAutorizada != nil {
			autorizada = strconv.Itoa(*l.CantidadAutorizada)
		}
		pdf.CellFormat(15, 7, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(l.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, autorizada, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, tr(l.Unidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 7, tr(l.Concepto), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(12)

	// Firmas
	pdf.SetFont("Helvetica", "", 9)
	y := pdf.GetY()
	pdf.Line(20, y, 90, y)
	pdf.Line(125, y, 195, y)
	pdf.CellFormat(90, 6, tr("Solicita"), "", 0, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Autoriza"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generar pdf de %s: %w", r.Folio, err)
	}
	return &buf, nil
}
