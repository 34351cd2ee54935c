package pfanalytics

import "time"

// Visitor représente une session de navigation unique.
// Les lignes sont immuables après insertion.
type Visitor struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"index;not null" json:"session_id"`
	DeviceType string    `gorm:"index" json:"device_type"`
	OS         string    `json:"os"`
	Browser    string    `json:"browser"`
	UserAgent  string    `json:"user_agent"`
	Referrer   string    `json:"referrer"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// PageView représente une navigation vers un chemin
type PageView struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	VisitorID string    `gorm:"index;not null" json:"visitor_id"`
	Path      string    `gorm:"index;not null" json:"path"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Event représente une interaction suivie (clic sur un lien démo, etc.)
type Event struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	VisitorID string    `gorm:"index;not null" json:"visitor_id"`
	Category  string    `gorm:"index;not null" json:"event_category"`
	Action    string    `gorm:"not null" json:"event_action"`
	Label     string    `json:"event_label"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Visitor) TableName() string {
	return "analytics_visitors"
}

func (PageView) TableName() string {
	return "analytics_page_views"
}

func (Event) TableName() string {
	return "analytics_events"
}
