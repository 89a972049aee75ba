// Package config loads typed configuration structs from environment variables.
//
// Struct fields are described with caarlos0/env tags (`env:"NAME,required"`,
// `envDefault:"..."`, nested structs, durations, slices). Before parsing, Load
// reads a .env file through godotenv when one exists; variables already set in
// the process environment take precedence over the file.
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
