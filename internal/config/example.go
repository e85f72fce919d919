package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasker configuration file
# Values can be overridden by TASKER_* environment variables or CLI flags

# Directory holding task state and logs (supports ~ and $VAR expansion)
data_dir = "~/.tasker"

# Store backend: file, sqlite, or memory (nothing is kept between runs)
store_backend = "file"

# State file for the file backend, relative to data_dir
state_file = "state.json"

# Database file for the sqlite backend, relative to data_dir
db_file = "state.db"

# Due date format: en-IN (5/3/2024), en-GB (05/03/2024), en-US (3/5/2024), iso
date_locale = "en-IN"

# Force the theme at startup: "dark" or "light". Leave unset to keep the
# theme chosen in the app.
# theme = "dark"

# Logging (log_dir defaults to <data_dir>/logs)
# log_dir = "~/.tasker/logs"
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false

# Number of run logs to keep
log_keep = 20
`
}
