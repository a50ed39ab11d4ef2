package models

// TodoGroup owns zero or more TodoItems.
type TodoGroup struct {
	ID        int64      `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	CreatedAt string     `db:"created_at" json:"created_at"`
	Items     []TodoItem `json:"items,omitempty"`
}

// TodoItem is a checklist entry inside a group.
type TodoItem struct {
	ID        int64  `db:"id" json:"id"`
	GroupID   int64  `db:"group_id" json:"group_id"`
	Title     string `db:"title" json:"title"`
	Done      bool   `db:"done" json:"done"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
