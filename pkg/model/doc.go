// Package model defines the database models for the client project manager.
//
// This package contains GORM models that map to the PostgreSQL schema created
// by the migrations in db/migrations.
//
// # Core Models
//
//   - User: Authenticated principals (username and bcrypt password hash)
//   - Client: Organisational entity owning projects
//   - Project: Unit of work belonging to exactly one client
//   - ProjectUser: Assignment of a user to a project
//
// # Database Schema
//
//   - users: All users known to the auth subsystem
//   - clients: Clients, with created_by referencing users
//   - projects: Projects, with client_id referencing clients (ON DELETE CASCADE)
//   - project_users: Many-to-many join between projects and users
package model
