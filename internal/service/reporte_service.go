package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/xuri/excelize/v2"
)

type ReporteService interface {
	// ExcelRequisiciones arma un libro XLSX con las requisiciones creadas en
	// el rango [desde, hasta), una fila por requisición.
	ExcelRequisiciones(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, error)
}

type reporteService struct {
	repo          repository.RequisicionRepository
	entregaFisica func(*model.Requisicion) bool
}

func NewReporteService(repo repository.RequisicionRepository, entregaFisica func(*model.Requisicion) bool) ReporteService {
	return &reporteService{repo: repo, entregaFisica: entregaFisica}
}

var columnasReporte = []string{
	"Folio", "Estado", "Solicitante", "Órgano requirente", "Tipo de material",
	"Líneas", "Piezas autorizadas", "Proveedor", "Monto estimado",
	"Entrega física", "Fecha de creación",
}

func (s *reporteService) ExcelRequisiciones(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, error) {
	if !hasta.After(desde) {
		return nil, apierror.New(apierror.ErrValidacion, "el rango de fechas es inválido")
	}
	reqs, err := s.repo.ListEntre(ctx, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("consultar requisiciones del rango: %w", err)
	}

	f := excelize.NewFile()
	const hoja = "Requisiciones"
	f.SetSheetName("Sheet1", hoja)

	for i, col := range columnasReporte {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(hoja, celda, col)
	}

	for fila, r := range reqs {
		piezas := 0
		for _, l := range r.Lineas {
			piezas += l.CantidadEfectiva()
		}
		proveedor := ""
		if r.Proveedor != nil {
			proveedor = *r.Proveedor
		}
		monto := ""
		if r.MontoEstimado != nil {
			monto = r.MontoEstimado.StringFixed(2)
		}
		fisica := "No"
		if s.entregaFisica(&r) {
			fisica = "Sí"
		}

		valores := []interface{}{
			r.Folio, string(r.Estado), r.CreadoPor.Data().Nombre, r.OrganoRequirente,
			r.TipoMaterial, len(r.Lineas), piezas, proveedor, monto, fisica,
			r.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range valores {
			celda, _ := excelize.CoordinatesToCellName(col+1, fila+2)
			f.SetCellValue(hoja, celda, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar reporte: %w", err)
	}
	return buf, nil
}
