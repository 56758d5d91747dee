package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/dto"
	"oficialia/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	solicitante = Actor{UID: "u-sol", Email: "sol@mun.gob.mx", Nombre: "Sofía Solicitante", Rol: model.RolSolicitud}
	revisora    = Actor{UID: "u-rev", Email: "rev@mun.gob.mx", Nombre: "Rosa Revisora", Rol: model.RolRevision}
	autorizador = Actor{UID: "u-aut", Email: "aut@mun.gob.mx", Nombre: "Aldo Autorizador", Rol: model.RolAutorizacion}
	almacenista = Actor{UID: "u-alm", Email: "alm@mun.gob.mx", Nombre: "Alma Almacén", Rol: model.RolAlmacen}
	admin       = Actor{UID: "u-adm", Email: "adm@mun.gob.mx", Nombre: "Ada Admin", Rol: model.RolAdmin}
)

func solicitudBase() dto.CrearRequisicionRequest {
	return dto.CrearRequisicionRequest{
		FechaSolicitud:    "2026-08-03",
		OrganoRequirente:  "Oficialía Mayor",
		TipoMaterial:      "MATERIALES Y SUMINISTROS",
		SubTipoMaterial:   "MATERIALES DE ADMINISTRACION, EMISION DE DOCUMENTOS Y ARTICULOS OFICIALES",
		Justificacion:     "Reposición de papelería del área",
		ResponsableNombre: "Sofía Solicitante",
		DireccionEntrega:  "Palacio Municipal, planta baja",
		Lineas: []dto.LineaRequest{
			{Cantidad: 10, Unidad: "Caja", Concepto: "Hojas tamaño carta", Descripcion: "Caja con 5000 hojas"},
			{Cantidad: 2, Unidad: "Pieza", Concepto: "Engrapadora", Descripcion: "Uso rudo"},
		},
	}
}

func TestCrearBorradorConservaDatos(t *testing.T) {
	svc, _, _, _, pub := armarServicio()
	ctx := context.Background()

	r, err := svc.Crear(ctx, solicitante, solicitudBase())
	require.NoError(t, err)

	assert.Equal(t, model.EstadoBorrador, r.Estado)
	assert.Empty(t, r.Folio)
	assert.Equal(t, solicitante.UID, r.CreadoPorID)
	assert.Equal(t, solicitante.Nombre, r.CreadoPor.Data().Nombre)
	require.Len(t, r.Lineas, 2)
	assert.Equal(t, "Hojas tamaño carta", r.Lineas[0].Concepto)
	assert.Equal(t, "Engrapadora", r.Lineas[1].Concepto)
	assert.NotEmpty(t, r.Lineas[0].ID)
	assert.Len(t, pub.eventos, 1)

	leida, err := svc.Obtener(ctx, solicitante, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Lineas, leida.Lineas)
}

func TestEnviarAsignaFolioYNotificaRevision(t *testing.T) {
	svc, _, _, despacho, _ := armarServicio()
	ctx := context.Background()

	r, err := svc.Crear(ctx, solicitante, solicitudBase())
	require.NoError(t, err)

	enviado, err := svc.Enviar(ctx, solicitante, r.ID)
	require.NoError(t, err)

	anio := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("REQ-%d-00001", anio), enviado.Folio)
	assert.Equal(t, model.EstadoEnRevision, enviado.Estado)
	require.Len(t, despacho.notificaciones, 1)
	require.NotNil(t, despacho.notificaciones[0].TargetRol)
	assert.Equal(t, model.RolRevision, *despacho.notificaciones[0].TargetRol)
	require.Len(t, enviado.HistorialObservaciones, 1)
	assert.Equal(t, "enviada", enviado.HistorialObservaciones[0].Accion)
}

func TestFoliosConcurrentesSinHuecosNiDuplicados(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()
	const n = 40

	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := solicitudBase()
			req.Enviar = true
			r, err := svc.Crear(ctx, solicitante, req)
			if assert.NoError(t, err) {
				ids[i] = r.Folio
			}
		}(i)
	}
	wg.Wait()

	vistos := make(map[string]bool, n)
	for _, folio := range ids {
		assert.NotEmpty(t, folio)
		assert.False(t, vistos[folio], "folio duplicado %s", folio)
		vistos[folio] = true
	}
	// Sin huecos: deben existir exactamente los consecutivos 1..n.
	anio := time.Now().Year()
	for i := 1; i <= n; i++ {
		assert.True(t, vistos[fmt.Sprintf("REQ-%d-%05d", anio, i)], "falta el consecutivo %d", i)
	}
}

func TestEnviarSoloBorradorDelAutor(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r, err := svc.Crear(ctx, solicitante, solicitudBase())
	require.NoError(t, err)

	otra := Actor{UID: "u-otro", Rol: model.RolSolicitud}
	_, err = svc.Enviar(ctx, otra, r.ID)
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)

	_, err = svc.Enviar(ctx, solicitante, r.ID)
	require.NoError(t, err)

	// Un documento ya enviado no puede reenviarse.
	_, err = svc.Enviar(ctx, solicitante, r.ID)
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}

func TestReclamarEsExclusivo(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)

	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	_, err = svc.Reclamar(ctx, autorizador, r.ID)
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)

	_, err = svc.Reclamar(ctx, solicitante, r.ID)
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)
}

func TestTransicionExigeClaim(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)

	_, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)

	_, err = svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	// Otro revisor con claim ajeno tampoco avanza.
	_, err = svc.Transicion(ctx, autorizador, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)

	avanzada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCotizacion, avanzada.Estado)
	// El claim sobrevive al avance dentro del circuito.
	require.NotNil(t, avanzada.RevisorActual())
	assert.Equal(t, revisora.UID, avanzada.RevisorActual().UID)
}

func TestRechazoExigeMotivo(t *testing.T) {
	svc, _, _, despacho, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoRechazada})
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	rechazada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino: model.EstadoRechazada,
		Notas:   "No hay suficiencia presupuestal este mes",
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoRechazada, rechazada.Estado)
	assert.Nil(t, rechazada.RevisorActual())

	ultima := despacho.notificaciones[len(despacho.notificaciones)-1]
	require.NotNil(t, ultima.TargetUID)
	assert.Equal(t, solicitante.UID, *ultima.TargetUID)
	assert.Contains(t, ultima.Mensaje, "rechazada")
}

func TestRetornoCorrectivoABorradorLiberaClaim(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	devuelta, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino: model.EstadoBorrador,
		Notas:   "Falta justificar la cantidad solicitada",
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoBorrador, devuelta.Estado)
	assert.Nil(t, devuelta.RevisorActual())
	assert.Equal(t, "Falta justificar la cantidad solicitada", devuelta.RevisionNotas)
	// El folio ya asignado se conserva para el reenvío.
	assert.NotEmpty(t, devuelta.Folio)

	reenviada, err := svc.Enviar(ctx, solicitante, r.ID)
	require.NoError(t, err)
	assert.Equal(t, devuelta.Folio, reenviada.Folio)
	// Las notas del ciclo anterior no acompañan al reenvío.
	assert.Empty(t, reenviada.RevisionNotas)
}

func TestRetornoAlCircuitoDeRevisionNotificaSolicitante(t *testing.T) {
	ultimaParaSolicitante := func(t *testing.T, despacho *despachoMem) model.Notificacion {
		t.Helper()
		require.NotEmpty(t, despacho.notificaciones)
		n := despacho.notificaciones[len(despacho.notificaciones)-1]
		require.NotNil(t, n.TargetUID)
		assert.Equal(t, solicitante.UID, *n.TargetUID)
		return n
	}

	t.Run("desde cotización", func(t *testing.T) {
		svc, _, _, despacho, _ := armarServicio()
		ctx := context.Background()

		r := enviada(t, svc)
		_, err := svc.Reclamar(ctx, revisora, r.ID)
		require.NoError(t, err)
		_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
		require.NoError(t, err)

		devuelta, err := svc.Transicion(ctx, autorizador, r.ID, dto.TransicionRequest{Destino: model.EstadoEnRevision})
		require.NoError(t, err)
		assert.Equal(t, model.EstadoEnRevision, devuelta.Estado)
		ultimaParaSolicitante(t, despacho)
	})

	t.Run("desde suficiencia", func(t *testing.T) {
		svc, _, _, despacho, _ := armarServicio()
		ctx := context.Background()

		r := hastaSuficiencia(t, svc)
		devuelta, err := svc.Transicion(ctx, autorizador, r.ID, dto.TransicionRequest{Destino: model.EstadoEnRevision})
		require.NoError(t, err)
		assert.Equal(t, model.EstadoEnRevision, devuelta.Estado)
		n := ultimaParaSolicitante(t, despacho)
		assert.Equal(t, model.NotifEstado, n.Tipo)
	})
}

func TestProveedorSoloSeAsignaAlAutorizar(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	// Antes de la autorización el proveedor no se acepta.
	adelantado := "Proveedor Madrugador SA"
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino:   model.EstadoCotizacion,
		Proveedor: &adelantado,
	})
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	require.NoError(t, err)
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoSuficiencia})
	require.NoError(t, err)

	proveedor := "Papelera del Sur SA"
	autorizada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino:   model.EstadoAutorizada,
		Proveedor: &proveedor,
	})
	require.NoError(t, err)
	require.NotNil(t, autorizada.Proveedor)
	assert.Equal(t, proveedor, *autorizada.Proveedor)

	// Un retroceso y una nueva autorización no sustituyen al proveedor.
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoSuficiencia})
	require.NoError(t, err)
	otro := "Comercializadora del Norte SA"
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino:   model.EstadoAutorizada,
		Proveedor: &otro,
	})
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	// Repetir el mismo proveedor es idempotente y la reautorización procede.
	final, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino:   model.EstadoAutorizada,
		Proveedor: &proveedor,
	})
	require.NoError(t, err)
	assert.Equal(t, proveedor, *final.Proveedor)
}

func TestAutorizacionNotificaAlmacenSoloConEntregaFisica(t *testing.T) {
	t.Run("materiales van a almacén", func(t *testing.T) {
		svc, _, _, despacho, _ := armarServicio()
		ctx := context.Background()

		r := hastaSuficiencia(t, svc)
		proveedor := "Papelera del Sur SA"
		autorizada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
			Destino:   model.EstadoAutorizada,
			Proveedor: &proveedor,
		})
		require.NoError(t, err)
		assert.Equal(t, model.EstadoAutorizada, autorizada.Estado)

		var paraAlmacen, paraSolicitante bool
		for _, n := range despacho.notificaciones {
			if n.TargetRol != nil && *n.TargetRol == model.RolAlmacen {
				paraAlmacen = true
			}
			if n.TargetUID != nil && *n.TargetUID == solicitante.UID && n.Tipo == model.NotifEstado {
				paraSolicitante = true
			}
		}
		assert.True(t, paraAlmacen)
		assert.True(t, paraSolicitante)

		// El cierre con entrega física es del almacén, no de revisión.
		_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoFinalizada})
		assert.ErrorIs(t, err, apierror.ErrNoPermitido)

		entregada, err := svc.Transicion(ctx, almacenista, r.ID, dto.TransicionRequest{Destino: model.EstadoMaterialEntregado})
		require.NoError(t, err)
		assert.Equal(t, model.EstadoMaterialEntregado, entregada.Estado)
		// Al salir del circuito de revisión el reclamo se libera.
		assert.Nil(t, entregada.RevisorActual())
	})

	t.Run("servicios cierran sin almacén", func(t *testing.T) {
		svc, _, _, despacho, _ := armarServicio()
		ctx := context.Background()

		req := solicitudBase()
		req.TipoMaterial = "SERVICIOS GENERALES"
		req.SubTipoMaterial = "SERVICIOS BASICOS"
		r := hastaSuficienciaCon(t, svc, req)

		proveedor := "Instalaciones MX"
		_, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
			Destino:   model.EstadoAutorizada,
			Proveedor: &proveedor,
		})
		require.NoError(t, err)

		for _, n := range despacho.notificaciones {
			if n.TargetRol != nil {
				assert.NotEqual(t, model.RolAlmacen, *n.TargetRol)
			}
		}

		// Sin entrega física no existe material_entregado.
		_, err = svc.Transicion(ctx, almacenista, r.ID, dto.TransicionRequest{Destino: model.EstadoMaterialEntregado})
		assert.ErrorIs(t, err, apierror.ErrValidacion)

		cerrada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoFinalizada})
		require.NoError(t, err)
		assert.Equal(t, model.EstadoFinalizada, cerrada.Estado)
		assert.Nil(t, cerrada.RevisorActual())
	})
}

func TestAutorizarExigeProveedor(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := hastaSuficiencia(t, svc)
	_, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoAutorizada})
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}

func TestTransicionSobreEstadoYaMovido(t *testing.T) {
	svc, repo, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	// Alguien más mueve el documento por debajo del agua.
	actual, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	actual.Estado = model.EstadoCotizacion
	require.NoError(t, repo.Actualizar(ctx, actual))

	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino: model.EstadoRechazada,
		Notas:   "duplicada",
	})
	// Desde cotizacion no existe la arista a rechazada.
	assert.ErrorIs(t, err, apierror.ErrValidacion)
}

func TestActualizarLineasDelReclamante(t *testing.T) {
	svc, _, _, despacho, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	cero := 0
	cinco := 5
	ajustada, err := svc.ActualizarLineas(ctx, revisora, r.ID, dto.ActualizarLineasRequest{
		Lineas: []dto.LineaRevisionRequest{
			{ID: r.Lineas[0].ID, CantidadAutorizada: &cinco},
			{ID: r.Lineas[1].ID, CantidadAutorizada: &cero, ObservacionRevision: "Sin existencias"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, ajustada.Lineas[0].CantidadEfectiva())
	assert.True(t, ajustada.Lineas[1].Rechazada())
	// El orden de las líneas se conserva.
	assert.Equal(t, r.Lineas[0].ID, ajustada.Lineas[0].ID)

	ultima := despacho.notificaciones[len(despacho.notificaciones)-1]
	assert.Equal(t, model.NotifLinea, ultima.Tipo)

	// Línea ajena a la requisición.
	_, err = svc.ActualizarLineas(ctx, revisora, r.ID, dto.ActualizarLineasRequest{
		Lineas: []dto.LineaRevisionRequest{{ID: "no-existe", CantidadAutorizada: &cinco}},
	})
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	// Sin claim no hay ajuste.
	_, err = svc.ActualizarLineas(ctx, autorizador, r.ID, dto.ActualizarLineasRequest{
		Lineas: []dto.LineaRevisionRequest{{ID: r.Lineas[0].ID, CantidadAutorizada: &cinco}},
	})
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)
}

func TestTodasLasLineasRechazadasNoVaAAlmacen(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)

	cero := 0
	_, err = svc.ActualizarLineas(ctx, revisora, r.ID, dto.ActualizarLineasRequest{
		Lineas: []dto.LineaRevisionRequest{
			{ID: r.Lineas[0].ID, CantidadAutorizada: &cero},
			{ID: r.Lineas[1].ID, CantidadAutorizada: &cero},
		},
	})
	require.NoError(t, err)

	actual, err := svc.Obtener(ctx, revisora, r.ID)
	require.NoError(t, err)
	assert.False(t, svc.EntregaFisica(actual))
}

func TestEliminarBorradorEncolaLimpiezaDeAdjuntos(t *testing.T) {
	svc, _, _, despacho, pub := armarServicio()
	ctx := context.Background()

	r, err := svc.Crear(ctx, solicitante, solicitudBase())
	require.NoError(t, err)
	_, err = svc.AgregarAdjunto(ctx, solicitante, r.ID, model.ArchivoAdjunto{
		Nombre: "cotizacion.pdf", StoragePath: "requisiciones/x/cotizacion.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, svc.EliminarBorrador(ctx, solicitante, r.ID))
	assert.Equal(t, []string{"requisiciones/x/cotizacion.pdf"}, despacho.limpiezas)

	// La baja se difunde para que las bandejas vivas retiren el documento.
	require.Len(t, pub.bajas, 1)
	assert.Equal(t, r.ID, pub.bajas[0].ID)

	_, err = svc.Obtener(ctx, solicitante, r.ID)
	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)
}

func TestSolicitanteSoloVeLoSuyo(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)

	ajeno := Actor{UID: "u-ajeno", Rol: model.RolSolicitud}
	_, err := svc.Obtener(ctx, ajeno, r.ID)
	assert.ErrorIs(t, err, apierror.ErrNoPermitido)

	_, err = svc.Obtener(ctx, revisora, r.ID)
	assert.NoError(t, err)
}

func TestHistorialEsAppendOnly(t *testing.T) {
	svc, _, _, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)
	avanzada, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	require.NoError(t, err)

	require.Len(t, avanzada.HistorialObservaciones, 2)
	assert.Equal(t, "enviada", avanzada.HistorialObservaciones[0].Accion)
	assert.Contains(t, avanzada.HistorialObservaciones[1].Accion, "cotizacion")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func enviada(t *testing.T, svc *requisicionService) *model.Requisicion {
	t.Helper()
	req := solicitudBase()
	req.Enviar = true
	r, err := svc.Crear(context.Background(), solicitante, req)
	require.NoError(t, err)
	return r
}

func hastaSuficiencia(t *testing.T, svc *requisicionService) *model.Requisicion {
	return hastaSuficienciaCon(t, svc, solicitudBase())
}

func hastaSuficienciaCon(t *testing.T, svc *requisicionService, req dto.CrearRequisicionRequest) *model.Requisicion {
	t.Helper()
	ctx := context.Background()
	req.Enviar = true
	r, err := svc.Crear(ctx, solicitante, req)
	require.NoError(t, err)
	_, err = svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoCotizacion})
	require.NoError(t, err)
	r2, err := svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{Destino: model.EstadoSuficiencia})
	require.NoError(t, err)
	return r2
}

func TestVentanaCerradaBloqueaEnvioNuevo(t *testing.T) {
	svc, _, cfgRepo, _, _ := armarServicio()
	ctx := context.Background()

	cfgRepo.cfg.ExcepcionGlobal = false
	// Día 20: fuera de los primeros cinco días hábiles de cualquier mes.
	svc.ahora = func() time.Time {
		return time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	}

	req := solicitudBase()
	req.Enviar = true
	_, err := svc.Crear(ctx, solicitante, req)
	assert.ErrorIs(t, err, apierror.ErrValidacion)

	// Dirección queda exenta de la ventana.
	_, err = svc.Crear(ctx, Actor{UID: "u-dir", Nombre: "Dora Dirección", Rol: model.RolDireccion}, req)
	assert.NoError(t, err)
}

func TestVentanaCerradaPermiteCorreccion(t *testing.T) {
	svc, _, cfgRepo, _, _ := armarServicio()
	ctx := context.Background()

	r := enviada(t, svc)
	_, err := svc.Reclamar(ctx, revisora, r.ID)
	require.NoError(t, err)
	_, err = svc.Transicion(ctx, revisora, r.ID, dto.TransicionRequest{
		Destino: model.EstadoBorrador,
		Notas:   "corrige la dirección de entrega",
	})
	require.NoError(t, err)

	cfgRepo.cfg.ExcepcionGlobal = false
	svc.ahora = func() time.Time {
		return time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	}

	reenviada, err := svc.Enviar(ctx, solicitante, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnRevision, reenviada.Estado)
}

func TestExcepcionIndividualRespetaExpiracion(t *testing.T) {
	svc, _, cfgRepo, _, _ := armarServicio()
	ctx := context.Background()

	cfgRepo.cfg.ExcepcionGlobal = false
	cfgRepo.cfg.ExcepcionesUsuarios = []model.ExcepcionUsuario{
		{UID: solicitante.UID, Expira: "2026-08-25"},
	}
	svc.ahora = func() time.Time {
		return time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	}

	req := solicitudBase()
	req.Enviar = true
	_, err := svc.Crear(ctx, solicitante, req)
	assert.NoError(t, err)

	// Expirada: la fecha límite es inclusiva, el día siguiente ya no pasa.
	svc.ahora = func() time.Time {
		return time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	}
	_, err = svc.Crear(ctx, solicitante, req)
	assert.True(t, errors.Is(err, apierror.ErrValidacion))
}
