// Package config provides configuration management for ddalabctl.
//
// Configuration is loaded from several layers and merged in order, later
// layers overriding earlier ones:
//
//  1. Defaults compiled into the binary
//  2. User configuration (~/.config/ddalabctl/config.yaml)
//  3. Project configuration (./.ddalabctl/config.yaml)
//  4. The DDALAB_API_URL environment variable
//  5. Command line flags (applied by the caller)
//
// # Configuration Structure
//
//	api:
//	  baseURL: "http://localhost:8080"   # backend root; "/api" is appended per request
//	  timeout: 30s
//	ui:
//	  pollInterval: 30s
//	  alertDuration: 5s
//	  opener: auto                       # auto, browser or clipboard
//	export:
//	  dir: "."
//	docker:
//	  backendContainer: ddalab-control
//
// The backend base URL is deliberately a runtime value: the same binary talks
// to a backend reachable as ddalab-control:8080 inside the Docker Desktop VM and
// as localhost:8080 during development.
package config
