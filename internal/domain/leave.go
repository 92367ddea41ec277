package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveStatus tracks a leave transaction through approval.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// LeaveSetting is a leave policy owned by the remote API.
// Credit is stored in hour-equivalents: 8 hours = 1 day.
type LeaveSetting struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Credit    decimal.Decimal `json:"credit"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UserLeave is a per-user leave balance, in hours.
type UserLeave struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	LeaveSettingID int64           `json:"leaveSettingId"`
	SettingName    string          `json:"settingName"`
	Credit         decimal.Decimal `json:"credit"`
	Used           decimal.Decimal `json:"used"`
}

// LeaveTypeFlags marks which kind of leave a record claims. At most one
// flag is expected to be set; Other carries free text when none is.
type LeaveTypeFlags struct {
	Vacation  bool   `json:"vacation"`
	Mandatory bool   `json:"mandatory"`
	Sick      bool   `json:"sick"`
	Maternity bool   `json:"maternity"`
	Paternity bool   `json:"paternity"`
	Special   bool   `json:"special"`
	Other     string `json:"other"`
}

// LeaveRecord is a single leave transaction fetched from the remote API.
// Credit is in hours, like every stored credit value.
type LeaveRecord struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Type      LeaveTypeFlags  `json:"type"`
	DateFrom  time.Time       `json:"dateFrom"`
	DateTo    time.Time       `json:"dateTo"`
	Credit    decimal.Decimal `json:"credit"`
	Status    LeaveStatus     `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// LeaveReportRow is one line of the printable per-user leave report.
type LeaveReportRow struct {
	SettingName string          `json:"settingName"`
	Earned      decimal.Decimal `json:"earned"`
	Used        decimal.Decimal `json:"used"`
	Balance     decimal.Decimal `json:"balance"`
}
