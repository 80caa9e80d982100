package config

import (
	"time"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Token     Token
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Token implements API token issuance settings.
type Token struct {
	// ExpiryDays is the validity horizon for newly issued API tokens.
	ExpiryDays int
	// Prefix is prepended to every generated token key.
	Prefix string
}
