// Package models contains the typed views of the configuration domains.
//
// Each domain is a single-row table whose primary key is always the sentinel
// value 1. The structs double as gorm models for the initial schema migration
// and as decode targets for a settings record, so every attribute is an
// optional pointer and unknown columns end up in Extra.
package models
