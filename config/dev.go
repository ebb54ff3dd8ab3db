// Package config configures the Application using .env file, environment variables
// and other necessary configs
package config

// DevConfig configures the application to run int DEVELOPMENT mode
var DevConfig = &Config{
	GinPort:             "5000",
	LogLevel:            "DEBUG",
	ProxmoxPort:         "8006",
	Node:                "homelab",
	InsecureTLS:         true,
	HTTPTimeoutSeconds:  10,
	PollIntervalSeconds: 30,
	DBName:              "proxpeek",
	DBHost:              "localhost",
	DBPort:              "5432",
	DBUser:              "proxpeek",
	DBPassword:          "proxpeek",
	MQTTTopicPrefix:     "proxpeek",
}
