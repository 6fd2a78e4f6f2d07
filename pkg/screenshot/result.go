package screenshot

import "time"

// Status classifies how a single field extraction ended. Empty means the crop
// held nothing recognizable; Unparsed means OCR produced text that would not
// parse, and the raw text is kept for audit.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusUnparsed
)

// IntField is the result of extracting a numeric field.
type IntField struct {
	Value  int
	Status Status
	Raw    string
}

// Ptr returns the value as a nullable column, nil unless extraction succeeded.
func (f IntField) Ptr() *int {
	if f.Status != StatusOK {
		return nil
	}
	v := f.Value
	return &v
}

// TextField is the result of extracting a free-text field.
type TextField struct {
	Value  string
	Status Status
	Raw    string
}

func (f TextField) Ptr() *string {
	if f.Status != StatusOK {
		return nil
	}
	v := f.Value
	return &v
}

// DateField is the result of extracting a calendar date.
type DateField struct {
	Value  time.Time
	Status Status
	Raw    string
}

func (f DateField) Ptr() *time.Time {
	if f.Status != StatusOK {
		return nil
	}
	v := f.Value
	return &v
}
