package sqlstore

import (
	"database/sql"
	"time"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Options configures the SQL repositories
type Options struct {
	Logger *logrus.Logger
	Query  repositories.QueryConfig
	// Clock stamps updated_at; defaults to time.Now in UTC
	Clock func() time.Time
}

// NewRepositories creates all repositories over one connection pool
func NewRepositories(db *sql.DB, dialect database.Dialect, opts Options) *repositories.Repositories {
	return &repositories.Repositories{
		Prospects:  NewProspectRepository(db, dialect, opts),
		Users:      NewUserRepository(db, dialect, opts),
		Workspaces: NewWorkspaceRepository(db, dialect, opts),
	}
}
