package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
)

// Límites de horas para la validación de envío.
var (
	minDailyHours  = decimal.NewFromInt(8)
	maxDailyHours  = decimal.NewFromInt(10)
	maxWeeklyHours = decimal.NewFromInt(56)
)

const dateLayout = "2006-01-02"

// Validate inspecciona el conjunto candidato de entradas de una semana y
// devuelve la lista de advertencias. Se invoca solo al enviar (nunca bloquea
// guardar un draft) y nunca aborta: todas las reglas se evalúan de forma
// independiente y el caller decide si bloquea o continúa.
//
// Reglas: límites diarios (8–10h por fecha con entradas), tope semanal (56h),
// duplicados por clave (project, task, date), fechas futuras respecto a now,
// y cobertura lunes–viernes de la semana de la entrada más temprana.
// Advertencias idénticas se colapsan a una sola, preservando el orden.
func Validate(entries []*entity.TimeEntry, now time.Time) []string {
	if len(entries) == 0 {
		return nil
	}

	var warnings []string

	// Totales por fecha (clave = día calendario).
	perDay := map[string]decimal.Decimal{}
	weekTotal := decimal.Zero
	for _, e := range entries {
		k := e.Date.Format(dateLayout)
		perDay[k] = perDay[k].Add(e.Hours)
		weekTotal = weekTotal.Add(e.Hours)
	}
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	// 1. Límites diarios: solo fechas que tienen al menos una entrada.
	for _, d := range days {
		total := perDay[d]
		if total.LessThan(minDailyHours) {
			warnings = append(warnings, fmt.Sprintf("On %s: total hours %s < minimum %s", d, total, minDailyHours))
		} else if total.GreaterThan(maxDailyHours) {
			warnings = append(warnings, fmt.Sprintf("On %s: total hours %s > maximum %s", d, total, maxDailyHours))
		}
	}

	// 2. Tope semanal.
	if weekTotal.GreaterThan(maxWeeklyHours) {
		warnings = append(warnings, fmt.Sprintf("Week total hours %s > maximum %s", weekTotal, maxWeeklyHours))
	}

	// 3. Duplicados: una sola advertencia por clave repetida, sin importar
	// cuántas repeticiones haya.
	seen := map[string]int{}
	var dupKeys []string
	dupMsg := map[string]string{}
	for _, e := range entries {
		key := e.ProjectID + "|" + e.TaskKey() + "|" + e.Date.Format(dateLayout)
		seen[key]++
		if seen[key] == 2 {
			dupKeys = append(dupKeys, key)
			dupMsg[key] = fmt.Sprintf("Duplicate entries for project %s, task %s on %s",
				e.ProjectID, e.TaskKey(), e.Date.Format(dateLayout))
		}
	}
	sort.Strings(dupKeys)
	for _, k := range dupKeys {
		warnings = append(warnings, dupMsg[k])
	}

	// 4. Fechas futuras (día calendario local, hora en cero).
	today := truncateDay(now)
	futureSeen := map[string]bool{}
	for _, e := range entries {
		d := truncateDay(e.Date)
		if d.After(today) && !futureSeen[d.Format(dateLayout)] {
			futureSeen[d.Format(dateLayout)] = true
			warnings = append(warnings, fmt.Sprintf("Entry on %s is dated in the future", d.Format(dateLayout)))
		}
	}

	// 5. Cobertura lunes–viernes de la semana de la entrada más temprana.
	earliest := entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(earliest) {
			earliest = e.Date
		}
	}
	monday := MondayOf(earliest)
	for i := 0; i < 5; i++ {
		d := monday.AddDate(0, 0, i).Format(dateLayout)
		if total, ok := perDay[d]; !ok || total.IsZero() {
			warnings = append(warnings, fmt.Sprintf("No hours logged on %s", d))
		}
	}

	return dedupe(warnings)
}

// dedupe colapsa advertencias idénticas preservando la primera aparición.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, w := range in {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
