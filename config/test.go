// Package config configures the Application using .env file, environment variables
// and other necessary configs
package config

// TestConfig configures the application to run int TEST mode
var TestConfig = &Config{
	GinPort:             "5000",
	LogLevel:            "DEBUG",
	ProxmoxPort:         "8006",
	Node:                "homelab",
	HTTPTimeoutSeconds:  5,
	PollIntervalSeconds: 0,
	DBName:              "proxpeek_test",
	DBHost:              "localhost",
	DBPort:              "5432",
	DBUser:              "proxpeek",
	DBPassword:          "proxpeek",
	MQTTTopicPrefix:     "proxpeek-test",
}
