package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/keyring"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/postgres"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// lookupKeyring is replaced in tests
var lookupKeyring = keyring.GetConnectionString

// NewProvider builds the back end for a storage location. PostgreSQL
// locations must not embed a password; the real connection string comes
// from HABITGRID_DB_CONNECTION or the OS keyring when either is set.
func NewProvider(location string) (storage.Provider, error) {
	switch storage.KindOf(location) {
	case storage.KindPostgres:
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'habitgrid keyring set' or export %s instead", err, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(PostgresConnString(location)), nil
	case storage.KindJSON:
		return storage.NewJSONStore(location), nil
	default:
		return sqlite.NewStore(location), nil
	}
}

// PostgresConnString picks the connection string actually used to connect
func PostgresConnString(location string) string {
	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		logger.Debug("Using connection string from environment")
		return env
	}
	connStr, err := lookupKeyring()
	switch {
	case err == nil:
		logger.Debug("Using connection string from keyring")
		return connStr
	case !errors.Is(err, keyring.ErrNotFound):
		logger.Warn("Keyring lookup failed", "error", err)
	}
	return location
}
