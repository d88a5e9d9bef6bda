package config

// DB holds the database configuration settings.
type DB struct {
	Engine        string // sqlite (default), mysql or postgres
	Name          string // database name, also the sqlite file name
	DataDirectory string // directory of the sqlite file
	Extras        string
	Host          string
	Port          int
	User          string
	Password      string
}
