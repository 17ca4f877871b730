package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Secrets is the file-based configuration for everything outside the engine.
// The engine itself never reads the environment; constructors receive what
// they need explicitly.
type Secrets struct {
	Db    DbSecrets    `json:"db"`
	Kafka KafkaSecrets `json:"kafka"`

	// JwtSigningKey enables the bearer-token middleware when set; without it
	// the caller supplies userID in the request, as the original clients did.
	JwtSigningKey string `json:"jwtSigningKey"`

	// CorsAllowedOrigins defaults to the local frontend.
	CorsAllowedOrigins []string `json:"corsAllowedOrigins"`

	// InitialDeposit seeds brand-new cash accounts on first balance read.
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

type KafkaSecrets struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	// .env overlays process env before the secrets file is resolved; absent
	// files are fine.
	_ = godotenv.Load()

	secretsFile := "secrets.json"
	if f := os.Getenv("PAPERTRADE_SECRETS_FILE"); f != "" {
		secretsFile = f
	} else if os.Getenv("PAPERTRADE_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("PAPERTRADE_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	if len(secrets.CorsAllowedOrigins) == 0 {
		secrets.CorsAllowedOrigins = []string{"http://localhost:4200"}
	}
	if secrets.InitialDeposit.IsZero() {
		secrets.InitialDeposit = decimal.NewFromInt(100000)
	}

	return &secrets, nil
}
