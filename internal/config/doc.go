// Package config provides configuration management for the resindex CLI.
//
// # Configuration File
//
// The configuration file is config.yaml in the current directory or in
// ~/.config/resindex. It uses YAML format with the following structure:
//
//	version: 1
//	application:
//	  organization: OpenSCAD
//	  name: OpenSCAD
//	  folder: openscad        # optional, defaults to name
//	  suffix: -nightly        # optional, installation tier only
//	  channel: Nightly        # optional display label
//	platform: linux           # optional, defaults to the running OS
//	machine_env_var: OPENSCADPATH
//	env:
//	  XDG_DATA_HOME: /srv/data
//	locations:
//	  installation: [/opt/openscad-stable/share/openscad]
//	  user: [${HOME}/scad]
//	  disabled: [/usr/share/openscad]
//
// Every key can also be set through the environment with the RESINDEX_
// prefix, for example RESINDEX_APPLICATION_NAME.
//
// Keys under env are matched case-insensitively and applied upper-cased,
// because Viper folds map keys to lower case.
//
// # Loading Configuration
//
// Call [Init] once, then [Load] with an explicit path or "" to search the
// default locations. Loaded configurations are validated; see [Validate].
package config
