package models

// VirtualCard is a payment credential owned by a user. Only the last four digits
// of the number are stored locally.
type VirtualCard struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Holder    string `db:"holder" json:"holder"`
	Last4     string `db:"last4" json:"last4"`
	Brand     string `db:"brand" json:"brand,omitempty"`
	ExpMonth  int    `db:"exp_month" json:"exp_month"`
	ExpYear   int    `db:"exp_year" json:"exp_year"`
	RemoteID  string `db:"remote_id" json:"remote_id,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
