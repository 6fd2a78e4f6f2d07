package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueInt(t *testing.T) {
	v, err := ParseValue(FieldPointsScored, " 1250 ")
	require.NoError(t, err)
	assert.Equal(t, 1250, v.dbValue())
	assert.Equal(t, "1250", v.String())
}

func TestParseValueRejectsNonNumeric(t *testing.T) {
	for _, f := range []Field{FieldPointsScored, FieldOpponentServer, FieldOpponentScored, FieldTotalPoints, FieldDivision} {
		_, err := ParseValue(f, "twelve")
		assert.ErrorIs(t, err, ErrInvalidValue, "field %s", f)
	}
	_, err := ParseValue(FieldDivision, "-3")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseValueDate(t *testing.T) {
	v, err := ParseValue(FieldDate, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), v.dbValue())

	_, err = ParseValue(FieldDate, "30/08/2026")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseValueText(t *testing.T) {
	v, err := ParseValue(FieldOpponentGuild, "  Dragon Fang ")
	require.NoError(t, err)
	assert.Equal(t, "Dragon Fang", v.dbValue())

	_, err = ParseValue(FieldLeague, "   ")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseValueUnknownFieldRunsNoQuery(t *testing.T) {
	// guild_id is deliberately outside the closed set.
	_, err := ParseValue(Field("guild_id"), "7")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ParseValue(Field("submitted_by"), "7")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldKindsCoverAllFields(t *testing.T) {
	all := []Field{
		FieldPointsScored, FieldOpponentServer, FieldOpponentGuild,
		FieldOpponentScored, FieldDate, FieldTotalPoints, FieldLeague, FieldDivision,
	}
	assert.Len(t, fieldKinds, len(all))
	for _, f := range all {
		_, ok := fieldKinds[f]
		assert.True(t, ok, "field %s must have a kind", f)
	}
}
