package model

import "time"

// ClientNameMaxLength is the column width of clients.client_name
const ClientNameMaxLength = 100

// Client owns zero or more projects
type Client struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:client_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
	CreatedByID uint      `gorm:"column:created_by;not null"`

	CreatedBy User      `gorm:"foreignKey:CreatedByID"`
	Projects  []Project `gorm:"foreignKey:ClientID"`
}

func (Client) TableName() string {
	return "clients"
}
