package config

const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./librarymanagement.db"

	// DefaultPort matches the port the web client has always talked to.
	DefaultPort = 3001
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)
