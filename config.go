package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// initConfig loads a .env file when present and binds settings to
// environment variables. Dotted keys map to underscored variables, so
// "smtp.host" reads SMTP_HOST.
func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("database_path", "blog.db")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("smtp.port", "587")
}

// mailConfigured reports whether the contact form can actually deliver mail.
func mailConfigured() bool {
	return viper.GetString("smtp.host") != "" && viper.GetString("contact_email") != ""
}
