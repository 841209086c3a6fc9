// Package config loads settings and session state for the sealbox CLI.
//
// Both live as TOML files in the client directory (by default
// $XDG_CONFIG_HOME/sealbox):
//
//	config.toml    server address, identity path, timeouts and limits
//	session.toml   tokens of the last login, written with mode 0600
//
// A missing config file is not an error: defaults are used. Command-line
// flags are applied by the CLI on top of the loaded values.
//
// Example config.toml:
//
//	server_addr     = "127.0.0.1:50051"
//	identity_path   = "/home/me/.config/sealbox/identity.age"
//	request_timeout = "30s"
//	max_file_bytes  = 67108864
package config
