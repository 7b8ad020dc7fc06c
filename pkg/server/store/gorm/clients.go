package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// Ensure ClientsStore implements store.ClientsStore
var _ store.ClientsStore = (*ClientsStore)(nil)

// ClientsStore implements store.ClientsStore using GORM
type ClientsStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewClientsStore creates a new ClientsStore
func NewClientsStore(db *gorm.DB) *ClientsStore {
	return &ClientsStore{db: db, now: time.Now}
}

// ListClients returns a page of clients ordered by id. A zero limit
// leaves the page unbounded.
func (s *ClientsStore) ListClients(ctx context.Context, limit, offset int) ([]model.Client, error) {
	query := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var clients []model.Client
	err := query.Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// FetchClient returns a client with its creator and projects.
func (s *ClientsStore) FetchClient(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("projects.id")
		}).
		Preload("Projects.CreatedBy").
		First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// ClientExists reports whether a client with id exists.
func (s *ClientsStore) ClientExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateClient inserts a client owned by createdBy.
func (s *ClientsStore) CreateClient(ctx context.Context, name string, createdBy uint) (*model.Client, error) {
	client := model.Client{Name: name, CreatedByID: createdBy}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&client).Error; err != nil {
		return nil, err
	}
	return s.fetchWithCreator(ctx, client.ID)
}

// UpdateClient bumps updated_at and optionally renames the client.
func (s *ClientsStore) UpdateClient(ctx context.Context, id uint, name *string) (*model.Client, error) {
	updates := map[string]interface{}{"updated_at": s.now()}
	if name != nil {
		updates["client_name"] = *name
	}

	tx := s.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrClientNotFound
	}
	return s.fetchWithCreator(ctx, id)
}

// DeleteClient removes a client. Its projects go with it by cascade.
func (s *ClientsStore) DeleteClient(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Delete(&model.Client{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrClientNotFound
	}
	return nil
}

func (s *ClientsStore) fetchWithCreator(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	err := s.db.WithContext(ctx).Preload("CreatedBy").First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}
