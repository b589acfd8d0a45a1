package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	DBUrl             string `mapstructure:"DB_URL"`
	Port              string `mapstructure:"PORT"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	RazorpayKeyID     string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `mapstructure:"RAZORPAY_KEY_SECRET"`
	PremiumAmount     int64  `mapstructure:"PREMIUM_AMOUNT"` // minor units (paise)
	AWSRegion         string `mapstructure:"AWS_REGION"`
	SESFromEmail      string `mapstructure:"SES_FROM_EMAIL"` // empty disables delivery (dev mode)
	SESFromName       string `mapstructure:"SES_FROM_NAME"`
}

func LoadConfig() Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PREMIUM_AMOUNT", 9900) // ₹99
	viper.SetDefault("AWS_REGION", "ap-south-1")
	viper.SetDefault("SES_FROM_NAME", "CampRep AI")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, using env variables only")
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatal("config unmarshal error:", err)
	}

	if err := c.Validate(); err != nil {
		log.Fatal("config validation error: ", err)
	}

	return c
}

// Validate fails fast when a required secret is absent, so no endpoint
// can start serving insecurely.
func (c Config) Validate() error {
	if c.DBUrl == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	if c.PremiumAmount <= 0 {
		return fmt.Errorf("PREMIUM_AMOUNT must be positive")
	}
	return nil
}
