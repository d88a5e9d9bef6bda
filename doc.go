// Package main is the mellow command. `mellow start` opens the settings
// database, migrates it and serves the configuration panel api the bot and the
// browser panel share; `mellow settings` reads and writes the same settings
// from the shell.
package main
