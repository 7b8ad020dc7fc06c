package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

// ListProjectsForUser returns the projects userID is assigned to.
func (s *ProjectsStore) ListProjectsForUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ?", userID).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject inserts the project and its user assignments atomically.
func (s *ProjectsStore) CreateProject(ctx context.Context, p store.NewProject) (*model.Project, error) {
	project := model.Project{
		Name:        p.Name,
		ClientID:    p.ClientID,
		CreatedByID: p.CreatedBy,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Client{}).Where("id = ?", p.ClientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrClientNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return err
		}

		members := projectUsers(project.ID, p.UserIDs)
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}

	return s.fetchProject(ctx, project.ID)
}

func (s *ProjectsStore) fetchProject(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("CreatedBy").
		Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("users.id")
		}).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// projectUsers builds join rows, dropping duplicate user ids.
func projectUsers(projectID uint, userIDs []uint) []model.ProjectUser {
	seen := make(map[uint]bool, len(userIDs))
	rows := make([]model.ProjectUser, 0, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, model.ProjectUser{ProjectID: projectID, UserID: id})
	}
	return rows
}
