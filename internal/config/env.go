package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	IdentitySourceCSV   = "csv"
	IdentitySourceMySQL = "mysql"
)

type Env struct {
	AppAddr     string
	GinMode     string
	Environment string
	LogLevel    string

	IdentitySource string
	DataCSV        string
	MySQLDSN       string
	MySQLTable     string

	InvoiceDir         string
	InvoiceAirline     string
	AmountMin          decimal.Decimal
	AmountMax          decimal.Decimal
	HighValueThreshold decimal.Decimal
	AllowReparse       bool

	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()
	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (Env, error) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IDENTITY_SOURCE", IdentitySourceCSV)
	v.SetDefault("DATA_CSV", "data.csv")
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("MYSQL_TABLE", "passengers")
	v.SetDefault("INVOICE_DIR", "invoices")
	v.SetDefault("INVOICE_AIRLINE", "Thai Airways")
	v.SetDefault("INVOICE_AMOUNT_MIN", "100")
	v.SetDefault("INVOICE_AMOUNT_MAX", "20000")
	v.SetDefault("HIGH_VALUE_THRESHOLD", "10000")
	v.SetDefault("ALLOW_REPARSE", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(defaultOrigins, ","))
	v.AutomaticEnv()

	env := Env{
		AppAddr:        strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:        strings.TrimSpace(v.GetString("GIN_MODE")),
		Environment:    strings.TrimSpace(v.GetString("ENVIRONMENT")),
		LogLevel:       strings.TrimSpace(v.GetString("LOG_LEVEL")),
		IdentitySource: strings.ToLower(strings.TrimSpace(v.GetString("IDENTITY_SOURCE"))),
		DataCSV:        strings.TrimSpace(v.GetString("DATA_CSV")),
		MySQLDSN:       strings.TrimSpace(v.GetString("MYSQL_DSN")),
		MySQLTable:     strings.TrimSpace(v.GetString("MYSQL_TABLE")),
		InvoiceDir:     strings.TrimSpace(v.GetString("INVOICE_DIR")),
		InvoiceAirline: strings.TrimSpace(v.GetString("INVOICE_AIRLINE")),
		AllowReparse:   v.GetBool("ALLOW_REPARSE"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}

	var err error
	if env.AmountMin, err = decimalSetting(v, "INVOICE_AMOUNT_MIN"); err != nil {
		return Env{}, err
	}
	if env.AmountMax, err = decimalSetting(v, "INVOICE_AMOUNT_MAX"); err != nil {
		return Env{}, err
	}
	if env.HighValueThreshold, err = decimalSetting(v, "HIGH_VALUE_THRESHOLD"); err != nil {
		return Env{}, err
	}

	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Validate rejects settings the server cannot start with.
func (e Env) Validate() error {
	switch e.IdentitySource {
	case IdentitySourceCSV:
		if e.DataCSV == "" {
			return fmt.Errorf("DATA_CSV is required for the csv identity source")
		}
	case IdentitySourceMySQL:
		if e.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the mysql identity source")
		}
		if e.MySQLTable == "" {
			return fmt.Errorf("MYSQL_TABLE must not be empty")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_SOURCE %q", e.IdentitySource)
	}
	if e.InvoiceDir == "" {
		return fmt.Errorf("INVOICE_DIR must not be empty")
	}
	if e.AmountMin.IsNegative() {
		return fmt.Errorf("INVOICE_AMOUNT_MIN must not be negative")
	}
	if e.AmountMin.GreaterThan(e.AmountMax) {
		return fmt.Errorf("INVOICE_AMOUNT_MIN %s exceeds INVOICE_AMOUNT_MAX %s", e.AmountMin, e.AmountMax)
	}
	return nil
}

func decimalSetting(v *viper.Viper, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid amount %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
