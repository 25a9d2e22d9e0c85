package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Session backends.
const (
	SessionRemote = "remote"
	SessionLocal  = "local"
)

type Config struct {
	StoreEndpoint     string
	StoreProjectID    string
	StoreAPIKey       string
	StoreDatabaseID   string
	StoreCollectionID string
	StoreBackend      string
	SessionBackend    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMigrate  bool

	MongoURI string

	ServerPort string
	JWTSecret  string
	JWTExpiry  time.Duration

	CanvasIdleTTL time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		StoreEndpoint:     getEnv("STORE_ENDPOINT", "http://localhost/v1"),
		StoreProjectID:    getEnv("STORE_PROJECT_ID", ""),
		StoreAPIKey:       getEnv("STORE_API_KEY", ""),
		StoreDatabaseID:   getEnv("STORE_DATABASE_ID", ""),
		StoreCollectionID: getEnv("STORE_COLLECTION_ID", ""),
		StoreBackend:      getEnv("STORE_BACKEND", BackendREST),
		SessionBackend:    getEnv("SESSION_BACKEND", SessionRemote),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "lemonspace"),
		DBPassword:        getEnv("DB_PASSWORD", "lemonspace"),
		DBName:            getEnv("DB_NAME", "lemonspace"),
		DBMigrate:         getEnvBool("DB_MIGRATE", true),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		CanvasIdleTTL:     time.Duration(getEnvInt("CANVAS_IDLE_MINUTES", 60)) * time.Minute,
	}
}

// NeedsPostgres reports whether any configured backend lives in Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.StoreBackend == BackendPostgres || c.SessionBackend == SessionLocal
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultVal)))
	if err != nil {
		log.Printf("⚠️  %s is not a boolean, using %t", key, defaultVal)
		return defaultVal
	}
	return v
}

func getEnvInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil {
		log.Printf("⚠️  %s is not a number, using %d", key, defaultVal)
		return defaultVal
	}
	return v
}
