package di

// ComponentNames lists the keys the bootstrap layer registers. Applications
// embed it to add their own.
type ComponentNames struct {
	Config     string
	Logger     string
	Messages   string
	Database   string
	Events     string
	Tokens     string
	Passwords  string
	Metrics    string
	HTTPServer string
}

// Names contains the keys used by bootstrap.
var Names = ComponentNames{
	Config:     "config",
	Logger:     "logger",
	Messages:   "result_messages",
	Database:   "database",
	Events:     "event_publisher",
	Tokens:     "token_service",
	Passwords:  "password_hasher",
	Metrics:    "result_metrics",
	HTTPServer: "http_server",
}
