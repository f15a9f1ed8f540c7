package models

import "github.com/uptrace/bun"

// Dispute is the reported party's answer to a report. The report id doubles as
// the dispute's identity, so a report can carry at most one dispute.
type Dispute struct {
	bun.BaseModel `bun:"table:disputes"`

	ReportID    int64  `bun:"report_id,pk" json:"report"`
	UserID      string `bun:"user_id,notnull" json:"user"`
	Explanation string `bun:"explanation,notnull" json:"explanation"`
}
