package leave

import (
	"testing"

	"github.com/sumire/leaveportal/internal/domain"
)

func TestLabelForLeaveType(t *testing.T) {
	tests := []struct {
		name  string
		flags domain.LeaveTypeFlags
		want  string
	}{
		{"vacation", domain.LeaveTypeFlags{Vacation: true}, "Vacation"},
		{"sick", domain.LeaveTypeFlags{Sick: true}, "Sick"},
		{"special", domain.LeaveTypeFlags{Special: true}, "Special"},
		{"first match wins", domain.LeaveTypeFlags{Vacation: true, Sick: true}, "Vacation"},
		{"declared order beats set order", domain.LeaveTypeFlags{Sick: true, Mandatory: true}, "Mandatory"},
		{"other fallback", domain.LeaveTypeFlags{Other: "Bereavement"}, "Bereavement"},
		{"unknown sentinel", domain.LeaveTypeFlags{}, "Unknown"},
		{"flag beats other", domain.LeaveTypeFlags{Paternity: true, Other: "ignored"}, "Paternity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelForLeaveType(tt.flags); got != tt.want {
				t.Errorf("LabelForLeaveType = %q, want %q", got, tt.want)
			}
		})
	}
}
