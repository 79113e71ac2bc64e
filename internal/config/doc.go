// Package config provides the configuration system for talonkeys.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← TALONKEYS_*
//	├─────────────────────────────┤
//	│  3. .env File               │  ← next to the config file
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/talonkeys/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Configuration File
//
//	[dotool]
//	command = "dotoolc"
//	args = []
//	timeout = "500ms"
//
//	[scope]
//	apps = ["Sublime Text", "/^Sublime Text \\d$/"]
//	allow_unknown = true
//
//	[logging]
//	level = "info"
//	file = "~/.cache/talonkeys/talonkeys.log"
//
//	[keymap]
//	files = ["~/.config/talonkeys/keymap.toml"]
//
// # Environment Variables
//
//	TALONKEYS_DOTOOL_COMMAND   dotool.command
//	TALONKEYS_DOTOOL_TIMEOUT   dotool.timeout (Go duration)
//	TALONKEYS_APPS             scope.apps (comma separated)
//	TALONKEYS_LOG_LEVEL        logging.level
//	TALONKEYS_LOG_FILE         logging.file
//	TALONKEYS_KEYMAP           keymap.files (path list)
//
// # Live Reload
//
// The watcher sub-package reports changes to configuration and keymap files
// so long-running commands can rebuild their keymap.
package config
