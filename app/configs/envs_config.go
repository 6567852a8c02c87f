package configs

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type ENV struct {
	DBDriver            string
	DBHost              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBPort              string
	Port                string
	AppAuthKey          string
	AppEncKey           string
	CSRFKey             string
	AdminUser           string
	AdminPasswordHash   string
	ProductOptions      string
	ShippingRates       string
	CurrencySymbol      string
	RedisAddr           string
	EmailHost           string
	EmailPort           string
	EmailUsername       string
	EmailPassword       string
	EmailFrom           string
	MIDTRANS_CLIENT_KEY string
	MIDTRANS_SERVER_KEY string
	APP_URL             string
	APP_ENV             string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:            getEnv("DB_DRIVER", "mysql"),
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              os.Getenv("DB_PORT"),
		Port:                getEnv("APP_PORT", "8080"),
		AppAuthKey:          os.Getenv("APP_AUTH_KEY"),
		AppEncKey:           os.Getenv("APP_ENC_KEY"),
		CSRFKey:             os.Getenv("CSRF_KEY"),
		AdminUser:           getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
		ProductOptions:      getEnv("PRODUCT_OPTIONS", "Size,Colour"),
		ShippingRates:       getEnv("SHIPPING_RATES", "standard:10.00"),
		CurrencySymbol:      getEnv("CURRENCY_SYMBOL", "$"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		EmailHost:           os.Getenv("EMAIL_HOST"),
		EmailPort:           os.Getenv("EMAIL_PORT"),
		EmailUsername:       os.Getenv("EMAIL_USERNAME"),
		EmailPassword:       os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:           getEnv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),
		MIDTRANS_CLIENT_KEY: os.Getenv("MIDTRANS_CLIENT_KEY"),
		MIDTRANS_SERVER_KEY: os.Getenv("MIDTRANS_SERVER_KEY"),
		APP_URL:             getEnv("APP_URL", "http://localhost:8080"),
		APP_ENV:             getEnv("APP_ENV", "development"),
	}

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == "production"
}

func (e ENV) OptionTypes() models.OptionTypes {
	return models.ParseOptionTypes(e.ProductOptions)
}

// ParseShippingRates reads "type:amount" pairs separated by commas, e.g.
// "standard:10.00,express:25.00".
func ParseShippingRates(raw string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, amount, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid shipping rate %q, expected type:amount", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("invalid shipping rate amount for %q: %w", name, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("shipping rate for %q must not be negative", name)
		}
		rates[name] = rate
	}
	return rates, nil
}
