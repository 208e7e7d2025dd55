package model

const (
	NotificationAccessRequest = "access_request"
	NotificationSystem        = "system"
	NotificationInfo          = "info"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	Recipient uint   `gorm:"index;not null" json:"recipient"`
	Type      string `gorm:"size:30;default:'info'" json:"type"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Link      string `gorm:"size:255" json:"link,omitempty"`
	Read      bool   `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
