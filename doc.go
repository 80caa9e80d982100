// Package main provides the entry point for the inventory accounts service.
// It runs a web server using the Fiber framework exposing a REST API for
// managing users, groups, per-group rule sets (role permissions), owners
// and API tokens. The application uses gorm for data persistence.
package main
