package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"unires/config"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 20
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Row locks and anything inside a
// transaction must go through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

func getDBName(config config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	write := config.DB.Postgres.Write

	return CreatePostgresConnection(
		"write",
		Descriptor(write.Username, write.Password, write.Host, write.Port, getDBName(config, write.Name), write.SSLMode),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	read := config.DB.Postgres.Read

	return CreatePostgresConnection(
		"read",
		Descriptor(read.Username, read.Password, read.Host, read.Port, getDBName(config, read.Name), read.SSLMode),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

func Descriptor(username, password, host, port, dbName, sslMode string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		username,
		password,
		net.JoinHostPort(host, port),
		dbName,
		sslMode,
	)
}

// CreatePostgresConnection connects with retries and exits the process when
// every attempt fails.
func CreatePostgresConnection(name, descriptor string, maxRetry, waitTime int) *sqlx.DB {
	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.Info().Str("name", name).Msg("Connected to database")

			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		log.Error().
			Err(err).
			Str("name", name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Str("name", name).Msg("Could not connect to database")

	return nil
}
