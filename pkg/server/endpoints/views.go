package endpoints

import (
	"fmt"
	"time"

	"github.com/doodlesbykumbi/client-project-manager/pkg/model"
)

// ClientView is returned when listing or creating clients
type ClientView struct {
	ID         uint      `json:"id"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}

// ClientUpdateView is returned by PUT and PATCH
type ClientUpdateView struct {
	ID         uint      `json:"id"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedBy  string    `json:"created_by"`
}

// ClientDetailView is returned by GET /clients/{id}/. Projects holds either
// []ProjectSummaryView or []ProjectView depending on the requested variant.
type ClientDetailView struct {
	ID         uint        `json:"id"`
	ClientName string      `json:"client_name"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	CreatedBy  string      `json:"created_by"`
	Projects   interface{} `json:"projects"`
}

// ProjectSummaryView identifies a project inside a client detail
type ProjectSummaryView struct {
	ID          uint   `json:"id"`
	ProjectName string `json:"project_name"`
}

// ProjectView is returned when listing or creating projects under /projects/
type ProjectView struct {
	ID          uint      `json:"id"`
	ProjectName string    `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// ProjectDetailView is returned when creating a project for a client
type ProjectDetailView struct {
	ID          uint              `json:"id"`
	ProjectName string            `json:"project_name"`
	Client      string            `json:"client"`
	Users       []ProjectUserView `json:"users"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by"`
}

type ProjectUserView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Client detail variants selected with ?projects=
const (
	ProjectsSummary = "summary"
	ProjectsFull    = "full"
)

func newClientView(c *model.Client) ClientView {
	return ClientView{
		ID:         c.ID,
		ClientName: c.Name,
		CreatedAt:  c.CreatedAt.UTC(),
		CreatedBy:  c.CreatedBy.Username,
	}
}

func newClientUpdateView(c *model.Client) ClientUpdateView {
	return ClientUpdateView{
		ID:         c.ID,
		ClientName: c.Name,
		CreatedAt:  c.CreatedAt.UTC(),
		UpdatedAt:  c.UpdatedAt.UTC(),
		CreatedBy:  c.CreatedBy.Username,
	}
}

func newClientDetailView(c *model.Client, variant string) (ClientDetailView, error) {
	view := ClientDetailView{
		ID:         c.ID,
		ClientName: c.Name,
		CreatedAt:  c.CreatedAt.UTC(),
		UpdatedAt:  c.UpdatedAt.UTC(),
		CreatedBy:  c.CreatedBy.Username,
	}

	switch variant {
	case ProjectsSummary:
		projects := make([]ProjectSummaryView, 0, len(c.Projects))
		for _, p := range c.Projects {
			projects = append(projects, ProjectSummaryView{ID: p.ID, ProjectName: p.Name})
		}
		view.Projects = projects
	case ProjectsFull:
		projects := make([]ProjectView, 0, len(c.Projects))
		for i := range c.Projects {
			projects = append(projects, newProjectView(&c.Projects[i]))
		}
		view.Projects = projects
	default:
		return view, fmt.Errorf("unknown projects variant %q", variant)
	}
	return view, nil
}

func newProjectView(p *model.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		ProjectName: p.Name,
		CreatedAt:   p.CreatedAt.UTC(),
		CreatedBy:   p.CreatedBy.Username,
	}
}

func newProjectDetailView(p *model.Project) ProjectDetailView {
	users := make([]ProjectUserView, 0, len(p.Users))
	for _, u := range p.Users {
		users = append(users, ProjectUserView{ID: u.ID, Name: u.Username})
	}
	return ProjectDetailView{
		ID:          p.ID,
		ProjectName: p.Name,
		Client:      p.Client.Name,
		Users:       users,
		CreatedAt:   p.CreatedAt.UTC(),
		CreatedBy:   p.CreatedBy.Username,
	}
}
