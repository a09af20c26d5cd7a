package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	MinX int // Western edge of the exploration rectangle
	MaxX int // Eastern edge of the exploration rectangle
	MinY int // Southern edge of the exploration rectangle
	MaxY int // Northern edge of the exploration rectangle

	StartX       int    // Starting cell x coordinate
	StartY       int    // Starting cell y coordinate
	StartHeading string // Starting absolute heading (north, south, east, west)

	WallThresholdCm float64  // Sensor cutoff: readings at or below mean wall
	MaxNodes        int      // Exploration budget in distinct cells
	PriorityOrder   []string // Relative-direction priority (left, front, right, back)
	EnableCaching   bool     // Skip physical re-scans of fully scanned cells

	ExportPath string // JSON file the map is written to after each run

	SimSeed int64 // Seed for the simulated world generator

	HostIP   string // Host IP for the dashboard API
	RESTPort int    // Port for the dashboard API; 0 disables it
	GinMode  string // Mode for the Gin framework (e.g., release, debug, test)

	DBHost     string // Hostname for the run archive database; empty disables it
	DBPort     int    // Port number for the database
	DBUser     string // Username for the database
	DBPassword string // Password for the database
	DBName     string // Name of the database

	RedisHost string // Hostname for telemetry; empty disables it
	RedisPort int    // Port number for telemetry
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file when present; every
// key has a default so the mapper runs with no environment at all.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		MinX: getEnvAsIntWithDefault("MIN_X", -3),
		MaxX: getEnvAsIntWithDefault("MAX_X", 3),
		MinY: getEnvAsIntWithDefault("MIN_Y", -3),
		MaxY: getEnvAsIntWithDefault("MAX_Y", 3),

		StartX:       getEnvAsIntWithDefault("START_X", 0),
		StartY:       getEnvAsIntWithDefault("START_Y", 0),
		StartHeading: getEnvWithDefault("START_HEADING", "north"),

		WallThresholdCm: getEnvAsFloatWithDefault("WALL_THRESHOLD_CM", 50.0),
		MaxNodes:        getEnvAsIntWithDefault("MAX_NODES", 49),
		PriorityOrder:   getEnvAsListWithDefault("PRIORITY_ORDER", []string{"left", "front", "right", "back"}),
		EnableCaching:   getEnvAsBoolWithDefault("ENABLE_CACHING", true),

		ExportPath: getEnvWithDefault("EXPORT_PATH", "maze_map.json"),

		SimSeed: int64(getEnvAsIntWithDefault("SIM_SEED", 42)),

		HostIP:   getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort: getEnvAsIntWithDefault("REST_PORT", 0),
		GinMode:  getEnvWithDefault("GIN_MODE", "release"),

		DBHost:     getEnvWithDefault("DB_HOST", ""),
		DBPort:     getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:     getEnvWithDefault("DB_USER", ""),
		DBPassword: getEnvWithDefault("DB_PASS", ""),
		DBName:     getEnvWithDefault("DB_NAME", "rover"),

		RedisHost: getEnvWithDefault("REDIS_HOST", ""),
		RedisPort: getEnvAsIntWithDefault("REDIS_PORT", 6379),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer or logs a fatal error if it cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsFloatWithDefault retrieves the value of an environment variable as a float or logs a fatal error if it cannot be parsed.
func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}

// getEnvAsBoolWithDefault retrieves the value of an environment variable as a boolean or logs a fatal error if it cannot be parsed.
func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}

// getEnvAsListWithDefault retrieves a comma-separated environment variable as a slice.
func getEnvAsListWithDefault(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
