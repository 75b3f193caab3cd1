package intent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistente/internal/temporal"
)

var ref = time.Date(2026, time.March, 13, 10, 0, 0, 0, time.Local)

func newExtractor() *RegexExtractor {
	return NewRegexExtractor(temporal.NewResolver())
}

func TestExtractTriggerWithRelativeTime(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "Recuérdame comprar leche en 10 minutos", ref)
	require.NoError(t, err)
	require.True(t, ext.Found)
	assert.Equal(t, "comprar leche", ext.Message)
	assert.Contains(t, ext.TimeExpression, "10 minutos")
	require.NotNil(t, ext.TriggerAt)
	assert.Equal(t, ref.Add(10*time.Minute), *ext.TriggerAt)
}

func TestExtractTriggerWithoutTime(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "Recuérdame comprar pan", ref)
	require.NoError(t, err)
	require.True(t, ext.Found)
	assert.Equal(t, "comprar pan", ext.Message)
	assert.Nil(t, ext.TriggerAt)
}

func TestExtractObligationWithTime(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "tengo que sacar la basura en 1 hora", ref)
	require.NoError(t, err)
	require.True(t, ext.Found)
	assert.Equal(t, "sacar la basura", ext.Message)
	require.NotNil(t, ext.TriggerAt)
	assert.Equal(t, ref.Add(time.Hour), *ext.TriggerAt)
}

func TestExtractObligationWithoutTimeIsNotAReminder(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "tengo que pensarlo mejor", ref)
	require.NoError(t, err)
	assert.False(t, ext.Found)
}

func TestExtractGreetingAndFillerStripped(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "Oye, recuérdame que llame al doctor mañana a las 9am", ref)
	require.NoError(t, err)
	require.True(t, ext.Found)
	assert.Equal(t, "llame al doctor", ext.Message)
	require.NotNil(t, ext.TriggerAt)
	assert.Equal(t, time.Date(2026, time.March, 14, 9, 0, 0, 0, time.Local), *ext.TriggerAt)
}

func TestExtractNegative(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "¿Cómo estás?", ref)
	require.NoError(t, err)
	assert.False(t, ext.Found)
	assert.Empty(t, ext.Message)
}

func TestExtractAvisame(t *testing.T) {
	e := newExtractor()

	ext, err := e.Extract(context.Background(), "avísame en 20 minutos", ref)
	require.NoError(t, err)
	require.True(t, ext.Found)
	require.NotNil(t, ext.TriggerAt)
	assert.Equal(t, ref.Add(20*time.Minute), *ext.TriggerAt)
}
