// Package config configures the Application using .env file, environment variables
// and other necessary configs
package config

// ProdConfig configures the application to run int PRODUCTION mode
var ProdConfig = &Config{
	GinPort:             "5000",
	LogLevel:            "INFO",
	ProxmoxPort:         "8006",
	Node:                "homelab",
	HTTPTimeoutSeconds:  30,
	PollIntervalSeconds: 0,
	MQTTTopicPrefix:     "proxpeek",
}
