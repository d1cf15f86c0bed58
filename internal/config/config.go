package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Etsy     OAuthProviderConfig
	Canva    OAuthProviderConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// OAuthProviderConfig carries the per-provider secrets supplied through the
// environment. AuthorizeURL and TokenURL default to the provider's public
// endpoints; client id, secret and redirect URI are never defaulted.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	AuthorizeURL string
	TokenURL     string
	ShopID       string // Etsy only; used for the dashboard listings fetch
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("ETSY_AUTHORIZE_URL", "https://www.etsy.com/oauth/connect")
	viper.SetDefault("ETSY_TOKEN_URL", "https://api.etsy.com/v3/public/oauth/token")
	viper.SetDefault("ETSY_SCOPE", "listings_r transactions_r")
	viper.SetDefault("CANVA_AUTHORIZE_URL", "https://www.canva.com/oauth2/authorize")
	viper.SetDefault("CANVA_TOKEN_URL", "https://api.canva.com/v1/oauth/token")
	viper.SetDefault("CANVA_SCOPE", "design:read design:write")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Etsy: OAuthProviderConfig{
			ClientID:     viper.GetString("ETSY_CLIENT_ID"),
			ClientSecret: viper.GetString("ETSY_CLIENT_SECRET"),
			RedirectURI:  viper.GetString("ETSY_REDIRECT_URI"),
			Scope:        viper.GetString("ETSY_SCOPE"),
			AuthorizeURL: viper.GetString("ETSY_AUTHORIZE_URL"),
			TokenURL:     viper.GetString("ETSY_TOKEN_URL"),
			ShopID:       viper.GetString("ETSY_SHOP_ID"),
		},
		Canva: OAuthProviderConfig{
			ClientID:     viper.GetString("CANVA_CLIENT_ID"),
			ClientSecret: viper.GetString("CANVA_CLIENT_SECRET"),
			RedirectURI:  viper.GetString("CANVA_REDIRECT_URI"),
			Scope:        viper.GetString("CANVA_SCOPE"),
			AuthorizeURL: viper.GetString("CANVA_AUTHORIZE_URL"),
			TokenURL:     viper.GetString("CANVA_TOKEN_URL"),
		},
	}
}
