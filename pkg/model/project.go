package model

import "time"

// ProjectNameMaxLength is the column width of projects.project_name
const ProjectNameMaxLength = 100

// Project belongs to exactly one client and has a set of assigned users
type Project struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:project_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	ClientID    uint      `gorm:"column:client_id;not null"`
	CreatedByID uint      `gorm:"column:created_by;not null"`

	Client    Client `gorm:"foreignKey:ClientID"`
	CreatedBy User   `gorm:"foreignKey:CreatedByID"`
	Users     []User `gorm:"many2many:project_users;"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectUser is a row of the project_users join table
type ProjectUser struct {
	ProjectID uint `gorm:"column:project_id;primaryKey"`
	UserID    uint `gorm:"column:user_id;primaryKey"`
}

func (ProjectUser) TableName() string {
	return "project_users"
}
