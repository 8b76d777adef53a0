package form

import "strings"

// Required wire names for a job form, in display order.
const (
	FieldBusinessName = "business_name"
	FieldStartDT      = "start_dt"
	FieldEndDT        = "end_dt"
	FieldCalendar     = "calendar"
)

var requiredFields = []string{FieldBusinessName, FieldStartDT, FieldEndDT, FieldCalendar}

// MissingRequired returns the wire names of required fields that are absent
// or blank. Pure over the live field values.
func (f *Form) MissingRequired() []string {
	var missing []string
	for _, name := range requiredFields {
		field := f.Lookup(name)
		if field == nil || strings.TrimSpace(field.Value) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// HasMissingRequired reports whether any required field is absent or blank.
func (f *Form) HasMissingRequired() bool {
	return len(f.MissingRequired()) > 0
}
