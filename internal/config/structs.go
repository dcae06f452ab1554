package config

import (
	"time"

	"github.com/splitledger/splitledger/internal/logger"
)

// Session settings. Sessions are issued by the login service and only read here.
type Session struct {
	CookieName string        // defaults to session_id
	Table      string        // storage table shared with the login service, defaults to sessions
	ExpiryTime time.Duration // lifetime used when a session is written
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // seconds to answer 503 on /checkalive before stopping
	URL            string  // base url for the webserver
	Session        Session // session settings
}
