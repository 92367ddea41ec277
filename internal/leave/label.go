package leave

import "github.com/sumire/leaveportal/internal/domain"

// LabelForLeaveType derives the display label from a leave record's flag
// set. The scan order is fixed: the first true flag wins even when several
// are set. With no flag set the free-text Other field is used, and
// "Unknown" when that is empty too.
func LabelForLeaveType(f domain.LeaveTypeFlags) string {
	flags := []struct {
		label string
		set   bool
	}{
		{"Vacation", f.Vacation},
		{"Mandatory", f.Mandatory},
		{"Sick", f.Sick},
		{"Maternity", f.Maternity},
		{"Paternity", f.Paternity},
		{"Special", f.Special},
	}
	for _, fl := range flags {
		if fl.set {
			return fl.label
		}
	}
	if f.Other != "" {
		return f.Other
	}
	return "Unknown"
}
