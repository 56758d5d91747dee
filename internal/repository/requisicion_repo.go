package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// folioTxRetries bounds automatic retries of the folio transaction on
// serialization/deadlock conflicts before surfacing ErrConflicto.
const folioTxRetries = 3

type RequisicionRepository interface {
	// Crear inserts a draft (no folio).
	Crear(ctx context.Context, r *model.Requisicion) error
	// CrearConFolio inserts a brand-new requisition and assigns its folio from
	// the per-year counter in one atomic transaction.
	CrearConFolio(ctx context.Context, r *model.Requisicion) error
	// EnviarConFolio moves an existing draft to en_revision, assigning a folio
	// (if it never had one) inside the same transaction. The update is
	// conditional on the current estado so a stale submission fails loudly.
	EnviarConFolio(ctx context.Context, r *model.Requisicion, desde model.Estado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Requisicion, error)
	// Actualizar persists the full document (draft edits, line adjustments).
	Actualizar(ctx context.Context, r *model.Requisicion) error
	// ActualizarCond persists the full document only when the stored estado
	// still equals desde; returns apierror.ErrEstadoObsoleto otherwise.
	ActualizarCond(ctx context.Context, r *model.Requisicion, desde model.Estado) error
	// Reclamar is the claim compare-and-swap: it only succeeds when the
	// requisition is en_revision and unclaimed.
	Reclamar(ctx context.Context, id uuid.UUID, revisor model.DatosRevisor) error
	Eliminar(ctx context.Context, id uuid.UUID) error

	// Channel queries for the read model (§ bandeja).
	ListActivas(ctx context.Context) ([]model.Requisicion, error)
	ListTerminalesRecientes(ctx context.Context, limit int) ([]model.Requisicion, error)
	ListBorradoresDe(ctx context.Context, uid string) ([]model.Requisicion, error)
	ListDe(ctx context.Context, uid string) ([]model.Requisicion, error)
	ListTodas(ctx context.Context) ([]model.Requisicion, error)
	// ListEntre returns requisitions created inside [desde, hasta) for reports.
	ListEntre(ctx context.Context, desde, hasta time.Time) ([]model.Requisicion, error)

	DB() *gorm.DB
}

type requisicionRepo struct{ db *gorm.DB }

func NewRequisicionRepository(db *gorm.DB) RequisicionRepository { return &requisicionRepo{db: db} }

func (r *requisicionRepo) DB() *gorm.DB { return r.db }

func (r *requisicionRepo) Crear(ctx context.Context, req *model.Requisicion) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requisicionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Requisicion, error) {
	var req model.Requisicion
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisicionRepo) Actualizar(ctx context.Context, req *model.Requisicion) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requisicionRepo) ActualizarCond(ctx context.Context, req *model.Requisicion, desde model.Estado) error {
	res := r.db.WithContext(ctx).
		Model(&model.Requisicion{}).
		Where("id = ? AND estado = ?", req.ID, desde).
		Select("*").Omit("id", "created_at").
		Updates(req)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrEstadoObsoleto
	}
	return nil
}

// Reclamar sets revisando_por iff the record is en_revision and unclaimed.
// This is the stricter compare-and-swap variant of the claim protocol: the
// optimistic single-field write would also be correct (downstream guards
// re-check state), but postgres gives us the conditional update for free.
func (r *requisicionRepo) Reclamar(ctx context.Context, id uuid.UUID, revisor model.DatosRevisor) error {
	res := r.db.WithContext(ctx).
		Model(&model.Requisicion{}).
		Where("id = ? AND estado = ? AND revisando_por IS NULL", id, model.EstadoEnRevision).
		Update("revisando_por", datatypes.NewJSONType(revisor))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNoPermitido
	}
	return nil
}

func (r *requisicionRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Requisicion{}, "id = ?", id).Error
}

// ── Folio sequencer ──────────────────────────────────────────────────────────
// The per-year counter row is locked FOR UPDATE, incremented, and the
// requisition written, all inside one transaction. A conflict aborts the whole
// transaction: the counter never advances without its requisition and no
// sequence value is ever skipped.

func (r *requisicionRepo) CrearConFolio(ctx context.Context, req *model.Requisicion) error {
	return r.conReintentos(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			folio, err := nextFolio(tx, time.Now().Year())
			if err != nil {
				return err
			}
			req.Folio = folio
			return tx.Create(req).Error
		})
	})
}

func (r *requisicionRepo) EnviarConFolio(ctx context.Context, req *model.Requisicion, desde model.Estado) error {
	return r.conReintentos(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if req.Folio == "" {
				folio, err := nextFolio(tx, time.Now().Year())
				if err != nil {
					return err
				}
				req.Folio = folio
			}
			res := tx.Model(&model.Requisicion{}).
				Where("id = ? AND estado = ?", req.ID, desde).
				Select("*").Omit("id", "created_at").
				Updates(req)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apierror.ErrEstadoObsoleto
			}
			return nil
		})
	})
}

// nextFolio locks (or lazily creates) the counter row for the year and
// returns the next formatted folio. Must run inside the caller's transaction.
func nextFolio(tx *gorm.DB, anio int) (string, error) {
	var counter model.FolioCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, "anio = ?", anio).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		counter = model.FolioCounter{Anio: anio, Count: 0}
		if err := tx.Create(&counter).Error; err != nil {
			return "", fmt.Errorf("crear contador de folios %d: %w", anio, err)
		}
	case err != nil:
		return "", fmt.Errorf("leer contador de folios %d: %w", anio, err)
	}

	counter.Count++
	if err := tx.Model(&model.FolioCounter{}).
		Where("anio = ?", anio).
		Update("count", counter.Count).Error; err != nil {
		return "", fmt.Errorf("avanzar contador de folios %d: %w", anio, err)
	}
	return fmt.Sprintf("REQ-%d-%05d", anio, counter.Count), nil
}

// conReintentos retries fn on serialization failures and deadlocks; any other
// error (including ErrEstadoObsoleto) is surfaced immediately.
func (r *requisicionRepo) conReintentos(fn func() error) error {
	var err error
	for i := 0; i < folioTxRetries; i++ {
		err = fn()
		if err == nil || !esConflictoSerializacion(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", apierror.ErrConflicto, err)
}

func esConflictoSerializacion(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// ── Channel queries ──────────────────────────────────────────────────────────

var estadosActivos = []model.Estado{
	model.EstadoEnRevision, model.EstadoCotizacion,
	model.EstadoSuficiencia, model.EstadoAutorizada,
}

var estadosTerminales = []model.Estado{
	model.EstadoRechazada, model.EstadoFinalizada, model.EstadoMaterialEntregado,
}

func (r *requisicionRepo) ListActivas(ctx context.Context) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).
		Where("estado IN ?", estadosActivos).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requisicionRepo) ListTerminalesRecientes(ctx context.Context, limit int) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).
		Where("estado IN ?", estadosTerminales).
		Order("created_at DESC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func (r *requisicionRepo) ListBorradoresDe(ctx context.Context, uid string) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).
		Where("creado_por_id = ? AND estado = ?", uid, model.EstadoBorrador).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requisicionRepo) ListDe(ctx context.Context, uid string) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).
		Where("creado_por_id = ?", uid).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requisicionRepo) ListTodas(ctx context.Context) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *requisicionRepo) ListEntre(ctx context.Context, desde, hasta time.Time) ([]model.Requisicion, error) {
	var reqs []model.Requisicion
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}
