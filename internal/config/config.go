package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath   string
	ImageDir string

	ServerPort string

	RedisURL string

	JWTSecret string

	AccessTokenMaxAge  int
	RefreshTokenMaxAge int

	VinDecoderBaseURL   string
	VinDecoderAPIKey    string
	VinDecoderSecretKey string

	FuelPricesBaseURL string

	FirestoreProjectID   string
	FirestoreCredentials string

	MirrorEnabled bool
	MirrorStrict  bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 900
	}

	refreshTokenMaxAge, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_MAX_AGE"))
	if err != nil || refreshTokenMaxAge <= 0 {
		refreshTokenMaxAge = 2592000
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "cargram.db"
	}

	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "images"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	vinBaseURL := os.Getenv("VIN_DECODER_BASE_URL")
	if vinBaseURL == "" {
		vinBaseURL = "https://api.vindecoder.eu/3.2"
	}

	fuelBaseURL := os.Getenv("FUEL_PRICES_BASE_URL")
	if fuelBaseURL == "" {
		fuelBaseURL = "https://www.fueleconomy.gov"
	}

	mirrorEnabled, err := strconv.ParseBool(os.Getenv("MIRROR_ENABLED"))
	if err != nil {
		mirrorEnabled = false
	}

	mirrorStrict, err := strconv.ParseBool(os.Getenv("MIRROR_STRICT"))
	if err != nil {
		mirrorStrict = false
	}

	return &Config{
		DBPath:   dbPath,
		ImageDir: imageDir,

		ServerPort: serverPort,

		RedisURL: redisURL,

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenMaxAge:  accessTokenMaxAge,
		RefreshTokenMaxAge: refreshTokenMaxAge,

		VinDecoderBaseURL:   vinBaseURL,
		VinDecoderAPIKey:    os.Getenv("VIN_DECODER_API_KEY"),
		VinDecoderSecretKey: os.Getenv("VIN_DECODER_SECRET_KEY"),

		FuelPricesBaseURL: fuelBaseURL,

		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCredentials: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		MirrorEnabled: mirrorEnabled,
		MirrorStrict:  mirrorStrict,
	}, nil
}
