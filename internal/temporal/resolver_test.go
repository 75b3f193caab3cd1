package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ref is a Friday, 2026-03-13 10:00 local time.
var ref = time.Date(2026, time.March, 13, 10, 0, 0, 0, time.Local)

func TestResolveRelativeMinutes(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("comprar leche en 10 minutos", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(10*time.Minute), res.Time)
	assert.Contains(t, res.Text, "10 minutos")
}

func TestResolveRelativeHours(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("llamar al dentista dentro de 2 horas", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(2*time.Hour), res.Time)
}

func TestResolveMediaHora(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("sacar la pizza en media hora", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(30*time.Minute), res.Time)
}

func TestResolveTomorrowWithClock(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("mañana a las 7am pagar la renta", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 14, 7, 0, 0, 0, time.Local), res.Time)
}

func TestResolveClockAlreadyPassedRollsForward(t *testing.T) {
	r := NewResolver()

	// Asked at 10:00, "a las 8" means tomorrow at 8.
	res, err := r.Resolve("a las 8 revisar el horno", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 14, 8, 0, 0, 0, time.Local), res.Time)
}

func TestResolveWeekdaySameDayMeansNextWeek(t *testing.T) {
	r := NewResolver()

	// ref is a Friday; "el viernes" is the next one, seven days out.
	res, err := r.Resolve("el viernes entregar el reporte", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.AddDate(0, 0, 7), res.Time)
}

func TestResolveWeekday(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("el lunes ir al banco", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, res.Time.Weekday())
	assert.True(t, res.Time.After(ref))
}

func TestResolveMonthDate(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("el 15 de marzo renovar el seguro", ref)
	require.NoError(t, err)
	assert.Equal(t, time.March, res.Time.Month())
	assert.Equal(t, 15, res.Time.Day())
	assert.Equal(t, 2026, res.Time.Year())
}

func TestResolveMonthDatePassedRollsToNextYear(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("el 10 de enero ir al médico", ref)
	require.NoError(t, err)
	assert.Equal(t, 2027, res.Time.Year())
}

func TestResolveFuzzyUnit(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("avisarme en 3 mintos", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(3*time.Minute), res.Time)
}

func TestResolveAbbreviatedUnit(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve("en 5 min apagar la estufa", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(5*time.Minute), res.Time)
}

func TestResolveNoExpression(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve("comprar leche y pan", ref)
	assert.ErrorIs(t, err, ErrNoTimeExpression)
}

func TestResolveBareNumberIsNotAClockTime(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve("comprar 3 manzanas", ref)
	assert.ErrorIs(t, err, ErrNoTimeExpression)
}
