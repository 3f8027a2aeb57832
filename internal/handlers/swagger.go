package handlers

// @title Prospect CRM API
// @version 1.0
// @description CRUD endpoints for prospects, users and workspaces, deployed as one function per resource
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/neon

// @tag.name prospectos
// @tag.description Prospect management and batch import

// @tag.name users
// @tag.description User accounts

// @tag.name workspaces
// @tag.description Workspaces and their owners
