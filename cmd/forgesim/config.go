package main

import (
	"os"
	"strconv"
)

// Config mirrors the teacher's initConfig pattern (env-var driven globals)
// but collected into a struct instead of package globals.
type Config struct {
	CommandControl bool
	ListenAddr     string
	DBPath         string
	ContentPath    string
	TickSeconds    float64
}

func loadConfig() Config {
	return Config{
		CommandControl: envBool("FORGESIM_COMMAND_CONTROL", true),
		ListenAddr:     envString("FORGESIM_LISTEN_ADDR", ":8080"),
		DBPath:         envString("FORGESIM_DB_PATH", "./data/forgesim.db"),
		ContentPath:    envString("FORGESIM_CONTENT_PATH", "./content.json"),
		TickSeconds:    envFloat("FORGESIM_TICK_SECONDS", 5.0),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
