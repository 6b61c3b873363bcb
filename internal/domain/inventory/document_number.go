package inventory

import (
	"fmt"
	"time"
)

// DocumentNumber arma el número de documento de una transacción (servicio de dominio).
// Formato: {TYPE}/{YYYYMMDD}/{NNN}, con NNN = existentes del día + 1 (mínimo 3 dígitos).
// La fecha se toma en la zona horaria de asOf.
func DocumentNumber(txType string, asOf time.Time, existing int) string {
	return fmt.Sprintf("%s/%s/%03d", txType, asOf.Format("20060102"), existing+1)
}

// DayRange devuelve el inicio del día de t y el inicio del día siguiente,
// ambos en la zona horaria de t. El rango es [start, end).
func DayRange(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}
