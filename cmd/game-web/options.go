package main

// Options is the root of the command line.  Struct tags are read by
// github.com/jessevdk/go-flags.  With no command the binary loads and
// prints the configuration; `serve` goes on to run the HTTP server.
type Options struct {
	ConfigPath string `long:"config-path" default:"config/game-web.toml" description:"Path to the TOML configuration file"`
	Strict     bool   `long:"strict" description:"Reject keys the schema does not name"`
	LogDir     string `long:"log-dir" default:"logs" description:"Directory for daily JSON logs"`
	LogLevel   string `long:"log-level" default:"info" description:"debug, info, warn or error"`

	Serve ServeCmd `command:"serve" description:"Load the configuration and serve HTTP until interrupted"`
}

// ServeCmd holds flags that only matter when serving.
type ServeCmd struct {
	NoDB bool `long:"no-db" description:"Do not open the database pool"`
}
