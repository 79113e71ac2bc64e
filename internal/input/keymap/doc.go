// Package keymap loads user keymap overrides for the chord translator.
//
// Override files extend or replace entries of the built-in tables in package
// key. TOML and YAML are supported, chosen by file extension:
//
//	# ~/.config/talonkeys/keymap.toml
//	[modifiers]
//	hyper = "super"
//
//	[symbols]
//	"." = "dot"
//
//	[keys]
//	printscr = "sysrq"
//
// Files are applied in the order given; later files win.
package keymap
