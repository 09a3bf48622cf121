package importer

import "time"

// ImportRun is the persisted end-of-run report of one migration invocation,
// kept for operator audit of bootstrap and re-runs.
type ImportRun struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	RunID  string `json:"run_id" gorm:"type:text;not null;uniqueIndex:ux_import_runs_run_id"`
	Entity string `json:"entity" gorm:"type:text;not null;index"`
	Mode   string `json:"mode" gorm:"type:text;not null"`
	Source string `json:"source" gorm:"type:text"`

	Rows    int `json:"rows" gorm:"not null;default:0"`
	Created int `json:"created" gorm:"not null;default:0"`
	Updated int `json:"updated" gorm:"not null;default:0"`
	Skipped int `json:"skipped" gorm:"not null;default:0"`
	Failed  int `json:"failed" gorm:"not null;default:0"`

	CategoriesCreated int `json:"categories_created" gorm:"not null;default:0"`

	DurationMS int64     `json:"duration_ms" gorm:"not null;default:0"`
	StartedAt  time.Time `json:"started_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ImportRun) TableName() string { return "import_runs" }
