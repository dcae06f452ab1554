package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string // driver specific DSN parameters, e.g. "parseTime=true" or "sslmode=disable"
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or the file path with the sqlite engine
	GormEngine string // mysql, postgres or sqlite

	MaxOpenConns int
	MaxIdleConns int
}
