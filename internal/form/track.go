package form

// Track records the current value of every trackable field as its baseline.
// It must be called again after any full content replacement of the form.
func (f *Form) Track() {
	for _, field := range f.Fields {
		if !field.trackable() {
			continue
		}
		field.tracked = true
		field.baseline = field.Value
		field.baselineChecked = field.Checked
	}
}

// IsDirty reports whether any tracked field differs from its baseline. A
// trackable field with no baseline counts as dirty when it holds a non-empty
// value; that covers controls inserted after the last Track.
func (f *Form) IsDirty() bool {
	for _, field := range f.Fields {
		if !field.trackable() {
			continue
		}
		if !field.tracked {
			if field.Value != "" || field.Checked {
				return true
			}
			continue
		}
		if field.Value != field.baseline || field.Checked != field.baselineChecked {
			return true
		}
	}
	return false
}

// Rebaseline resets every trackable field's baseline to its current value.
// Called after a successful save; a discarded form is re-parsed instead.
func (f *Form) Rebaseline() {
	f.Track()
}
