// Package model defines the database models for the identity admin server.
//
// This package contains GORM models that map to the identity database schema
// created by the migrations in db/migrations.
//
// # Core Models
//
//   - User: login identities with a bcrypt password hash
//   - Role: named authorization groups
//   - UserRole: role membership of a user
//   - Message: persisted audit and application log messages
//
// # Database Schema
//
//   - users: user accounts, unique on normalized_user_name
//   - roles: roles, unique on normalized_name
//   - user_roles: membership, primary key (user_id, role_id)
//   - messages: log messages read by the log viewer
package model
