package service

import (
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/model"
)

// diasHabilesVentana es el ancho de la ventana mensual de envío.
const diasHabilesVentana = 5

// esFestivo busca la fecha (YYYY-MM-DD) en el calendario configurado.
func esFestivo(dia time.Time, festivos []string) bool {
	clave := dia.Format("2006-01-02")
	for _, f := range festivos {
		if f == clave {
			return true
		}
	}
	return false
}

func esHabil(dia time.Time, festivos []string) bool {
	if dia.Weekday() == time.Saturday || dia.Weekday() == time.Sunday {
		return false
	}
	return !esFestivo(dia, festivos)
}

// VentanaAbierta reporta si hoy cae dentro de los primeros cinco días hábiles
// del mes, descontando sábados, domingos y festivos configurados.
func VentanaAbierta(hoy time.Time, festivos []string) bool {
	if !esHabil(hoy, festivos) {
		return false
	}
	rango := 0
	for d := 1; d <= hoy.Day(); d++ {
		dia := time.Date(hoy.Year(), hoy.Month(), d, 0, 0, 0, 0, hoy.Location())
		if esHabil(dia, festivos) {
			rango++
		}
	}
	return rango <= diasHabilesVentana
}

// excepcionVigente busca una excepción individual no expirada para el
// usuario. La fecha de expiración es inclusiva.
func excepcionVigente(cfg *model.ConfiguracionEnvio, uid string, ahora time.Time) bool {
	hoy := ahora.Format("2006-01-02")
	for _, e := range cfg.ExcepcionesUsuarios {
		if e.UID == uid && hoy <= e.Expira {
			return true
		}
	}
	return false
}

// validarVentanaEnvio aplica la política de ventana con sus excepciones, en
// orden: correcciones siempre pasan, luego roles exentos, luego la excepción
// global, luego la individual, y al final el calendario.
func validarVentanaEnvio(cfg *model.ConfiguracionEnvio, actor Actor, esCorreccion bool, ahora time.Time) error {
	if esCorreccion {
		return nil
	}
	if actor.Rol == model.RolDireccion || actor.Rol == model.RolAdmin {
		return nil
	}
	if cfg.ExcepcionGlobal {
		return nil
	}
	if excepcionVigente(cfg, actor.UID, ahora) {
		return nil
	}
	if !VentanaAbierta(ahora, cfg.DiasFestivos) {
		return apierror.New(apierror.ErrValidacion,
			"la ventana de envío está cerrada: solo se reciben requisiciones los primeros cinco días hábiles del mes")
	}
	return nil
}
