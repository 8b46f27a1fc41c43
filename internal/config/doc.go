// Package config owns the persisted dashboard document and the server settings
// read from the environment.
//
// # Document
//
// The document is a YAML file holding an ordered list of dashboards and the
// index of the current one:
//
//	current_dashboard: 0
//	dashboards:
//	  - name: Default Dashboard
//	    refresh_interval: 5
//	    rows: 3
//	    cols: 3
//	    entities:
//	      - entity: sun.sun
//	        position: [0, 0]
//	        type: auto
//
// Files written by older versions with a single top-level "dashboard" key are
// read as a one-element list and rewritten in list form on the next save.
//
// Every Store mutation saves the whole document atomically (temporary file plus
// rename). Within a dashboard a cell holds at most one binding and an entity
// appears at most once.
//
// # File Location
//
//   - Linux: $XDG_CONFIG_HOME/hatui/config.yaml or $HOME/.config/hatui/config.yaml
//   - macOS: $HOME/.config/hatui/config.yaml
//   - Windows: %LOCALAPPDATA%\hatui\config.yaml
//
// # Security
//
// HA_URL and HA_TOKEN come from the environment (optionally a .env file) and are
// never written to the document.
package config
