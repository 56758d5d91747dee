package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dia(anio int, mes time.Month, d int) time.Time {
	return time.Date(anio, mes, d, 10, 0, 0, 0, time.UTC)
}

func TestVentanaAbiertaPrimerosCincoHabiles(t *testing.T) {
	// Agosto 2026 empieza en sábado: los hábiles son 3, 4, 5, 6 y 7.
	assert.False(t, VentanaAbierta(dia(2026, time.August, 1), nil), "sábado 1")
	assert.False(t, VentanaAbierta(dia(2026, time.August, 2), nil), "domingo 2")
	assert.True(t, VentanaAbierta(dia(2026, time.August, 3), nil))
	assert.True(t, VentanaAbierta(dia(2026, time.August, 7), nil))
	assert.False(t, VentanaAbierta(dia(2026, time.August, 8), nil), "sábado 8")
	assert.False(t, VentanaAbierta(dia(2026, time.August, 10), nil), "sexto hábil")
	assert.False(t, VentanaAbierta(dia(2026, time.August, 20), nil))
}

func TestVentanaDescuentaFestivos(t *testing.T) {
	// Septiembre 2026 empieza en martes; el 1 es hábil.
	assert.True(t, VentanaAbierta(dia(2026, time.September, 1), nil))

	// Con el 1 y el 2 festivos, la ventana corre hasta el miércoles 9.
	festivos := []string{"2026-09-01", "2026-09-02"}
	assert.False(t, VentanaAbierta(dia(2026, time.September, 1), festivos), "festivo no es hábil")
	assert.True(t, VentanaAbierta(dia(2026, time.September, 3), festivos))
	assert.True(t, VentanaAbierta(dia(2026, time.September, 9), festivos), "quinto hábil corrido")
	assert.False(t, VentanaAbierta(dia(2026, time.September, 10), festivos))
}

func TestVentanaMesQueEmpiezaEnHabil(t *testing.T) {
	// Junio 2026 empieza en lunes: hábiles 1 a 5.
	for d := 1; d <= 5; d++ {
		assert.True(t, VentanaAbierta(dia(2026, time.June, d), nil), "día %d", d)
	}
	assert.False(t, VentanaAbierta(dia(2026, time.June, 8), nil), "lunes siguiente")
}
