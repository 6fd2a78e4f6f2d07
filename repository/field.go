package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field identifies one mutable submission column. The set is closed: the
// correction protocol refuses anything else before touching the database.
type Field string

const (
	FieldPointsScored   Field = "points_scored"
	FieldOpponentServer Field = "opponent_server"
	FieldOpponentGuild  Field = "opponent_guild"
	FieldOpponentScored Field = "opponent_scored"
	FieldDate           Field = "date"
	FieldTotalPoints    Field = "total_points"
	FieldLeague         Field = "league"
	FieldDivision       Field = "division"
)

// Kind is the value type a field accepts.
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindDate
)

var kindNames = map[Kind]string{KindInt: "a number", KindText: "text", KindDate: "a date"}

var fieldKinds = map[Field]Kind{
	FieldPointsScored:   KindInt,
	FieldOpponentServer: KindInt,
	FieldOpponentGuild:  KindText,
	FieldOpponentScored: KindInt,
	FieldDate:           KindDate,
	FieldTotalPoints:    KindInt,
	FieldLeague:         KindText,
	FieldDivision:       KindInt,
}

// Value is the typed variant supplied with a correction.
type Value struct {
	kind Kind
	num  int
	text string
	date time.Time
}

func IntValue(n int) Value        { return Value{kind: KindInt, num: n} }
func TextValue(s string) Value    { return Value{kind: KindText, text: s} }
func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t} }

// dbValue is the driver-facing representation.
func (v Value) dbValue() any {
	switch v.kind {
	case KindInt:
		return v.num
	case KindDate:
		return v.date
	default:
		return v.text
	}
}

// String renders the value the way confirmations display it.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.num)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return v.text
	}
}

// ParseValue validates raw user input against the field's kind, producing a
// typed Value or a rejection with a user-facing reason. No query runs here.
func ParseValue(f Field, raw string) (Value, error) {
	kind, ok := fieldKinds[f]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	raw = strings.TrimSpace(raw)
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Value{}, fmt.Errorf("%w: %s must be a number", ErrInvalidValue, f)
		}
		return IntValue(n), nil
	case KindDate:
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: date must be YYYY-mm-dd", ErrInvalidValue)
		}
		return DateValue(t), nil
	default:
		if raw == "" {
			return Value{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, f)
		}
		return TextValue(raw), nil
	}
}
