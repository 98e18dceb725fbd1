package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	UserId       string
	UserName     string
	UserPassword string

	TrialEnabled    bool
	TrialPolicy     string
	TrialMaxDays    int
	TrialMaxClasses int

	BillingCurrency      string
	BillingFrequency     int
	BillingFrequencyUnit string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	trialEnabled := true
	if val := os.Getenv("TRIAL_ENABLED"); val == "false" || val == "0" {
		trialEnabled = false
	}

	trialPolicy := os.Getenv("TRIAL_POLICY")
	if trialPolicy == "" {
		trialPolicy = "per_academy"
	}

	trialMaxDays := 7
	if val := os.Getenv("TRIAL_MAX_DAYS"); val != "" {
		if _, err := fmt.Sscanf(val, "%d", &trialMaxDays); err != nil {
			log.Fatalf("Invalid TRIAL_MAX_DAYS: %v", err)
		}
	}

	trialMaxClasses := 1
	if val := os.Getenv("TRIAL_MAX_CLASSES"); val != "" {
		if _, err := fmt.Sscanf(val, "%d", &trialMaxClasses); err != nil {
			log.Fatalf("Invalid TRIAL_MAX_CLASSES: %v", err)
		}
	}

	billingCurrency := os.Getenv("BILLING_CURRENCY")
	if billingCurrency == "" {
		billingCurrency = "ARS"
	}

	billingFrequency := 1
	if val := os.Getenv("BILLING_FREQUENCY"); val != "" {
		fmt.Sscanf(val, "%d", &billingFrequency)
	}

	billingFrequencyUnit := os.Getenv("BILLING_FREQUENCY_UNIT")
	if billingFrequencyUnit == "" {
		billingFrequencyUnit = "months"
	}

	return Config{
		Port:                 os.Getenv("PORT"),
		MongoURI:             os.Getenv("MONGO_URI"),
		DBName:               os.Getenv("DB_NAME"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		UserId:               os.Getenv("HARD_CODED_USER_ID"),
		UserName:             os.Getenv("HARD_CODED_USER_NAME"),
		UserPassword:         os.Getenv("HARD_CODED_USER_PASSWORD"),
		TrialEnabled:         trialEnabled,
		TrialPolicy:          trialPolicy,
		TrialMaxDays:         trialMaxDays,
		TrialMaxClasses:      trialMaxClasses,
		BillingCurrency:      billingCurrency,
		BillingFrequency:     billingFrequency,
		BillingFrequencyUnit: billingFrequencyUnit,
	}
}
