package datefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangePicker_InOrder(t *testing.T) {
	p := NewRangePicker(All)
	require.NoError(t, p.Tap("2024-03-15"))

	_, ok := p.Apply()
	assert.False(t, ok, "apply needs both ends")
	assert.Equal(t, []CalendarDate{"2024-03-15"}, p.Days())

	require.NoError(t, p.Tap("2024-03-17"))
	f, ok := p.Apply()
	require.True(t, ok)
	assert.Equal(t, Filter{Kind: KindCustom, Start: "2024-03-15", End: "2024-03-17"}, f)
	assert.Equal(t, []CalendarDate{"2024-03-15", "2024-03-16", "2024-03-17"}, p.Days())
}

func TestRangePicker_SwapsOutOfOrderPick(t *testing.T) {
	p := NewRangePicker(All)
	require.NoError(t, p.Tap("2024-03-20"))
	require.NoError(t, p.Tap("2024-03-15"))

	assert.Equal(t, CalendarDate("2024-03-15"), p.Start())
	assert.Equal(t, CalendarDate("2024-03-20"), p.End())
}

func TestRangePicker_ThirdTapRestarts(t *testing.T) {
	current, err := Custom("2024-03-15", "2024-03-20")
	require.NoError(t, err)

	p := NewRangePicker(current)
	assert.Equal(t, CalendarDate("2024-03-15"), p.Start())

	require.NoError(t, p.Tap("2024-04-01"))
	assert.Equal(t, CalendarDate("2024-04-01"), p.Start())
	assert.Empty(t, p.End())
}

func TestRangePicker_RejectsBadDay(t *testing.T) {
	p := NewRangePicker(All)
	assert.Error(t, p.Tap("15/03/2024"))
	assert.Empty(t, p.Start())
}

func TestRangePicker_Reset(t *testing.T) {
	p := NewRangePicker(All)
	require.NoError(t, p.Tap("2024-03-15"))
	p.Reset()
	assert.Nil(t, p.Days())
}
