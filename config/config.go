package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	GinPort             string `config:"PORT"`
	LogLevel            string `config:"LOG_LEVEL"`
	ProxmoxIP           string `config:"PROXMOX_IP"`
	ProxmoxPort         string `config:"PROXMOX_PORT"`
	TokenID             string `config:"PROXMOX_TOKEN_ID"`
	APIToken            string `config:"PROXMOX_API_TOKEN"`
	Node                string `config:"PROXMOX_NODE"`
	InsecureTLS         bool   `config:"PROXMOX_INSECURE_TLS"`
	HTTPTimeoutSeconds  int    `config:"HTTP_TIMEOUT_SECONDS"`
	PollIntervalSeconds int    `config:"POLL_INTERVAL_SECONDS"`
	SettingsFile        string `config:"SETTINGS_FILE"`
	DBName              string `config:"POSTGRES_NAME"`
	DBHost              string `config:"POSTGRES_HOST"`
	DBPort              string `config:"POSTGRES_PORT"`
	DBUser              string `config:"POSTGRES_USER"`
	DBPassword          string `config:"POSTGRES_PWD"`
	MQTTBroker          string `config:"MQTT_BROKER"`
	MQTTUser            string `config:"MQTT_USER"`
	MQTTPassword        string `config:"MQTT_PASSWORD"`
	MQTTTopicPrefix     string `config:"MQTT_TOPIC_PREFIX" default:"proxpeek"`
}

// Settings returns the Proxmox connection settings carried by the environment.
func (c *Config) Settings() Settings {
	return Settings{
		ProxmoxIP:   c.ProxmoxIP,
		ProxmoxPort: c.ProxmoxPort,
		TokenID:     c.TokenID,
		APIToken:    c.APIToken,
	}
}

// HasDatabase reports whether enough Postgres settings are present to open a connection.
func (c *Config) HasDatabase() bool {
	return c.DBHost != "" && c.DBName != ""
}

// loadDotEnv load the configuration inside the application taking care
// if the running OS is Windows making the necessary adaptations for this case.
// There is a precedence order: exported env var > .env file >  default config
func loadDotEnv(environmentFile string) {
	if environmentFile == "" {
		environmentFile = ".env"
	}
	envFile, hasPath := os.LookupEnv("PROXPEEK_DIR")
	if hasPath {
		log.Infof("Looking for Settings File at %v...", envFile)
		godotenv.Load(filepath.Join(envFile, environmentFile))
	} else if runtime.GOOS == "windows" {
		executable, _ := os.Executable()
		executable = filepath.FromSlash(executable)
		directory := filepath.Dir(executable)
		log.Infof("Looking for Settings File at %v...", directory)
		godotenv.Load(filepath.Join(directory, environmentFile))
	} else {
		godotenv.Load(environmentFile)
	}
}

// setField assigns a textual value to a string, int or bool field.
func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.Int:
		valInt, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%v env is not a valid int: %w", raw, err)
		}
		field.SetInt(int64(valInt))
	case reflect.Bool:
		valBool, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%v env is not a valid bool: %w", raw, err)
		}
		field.SetBool(valBool)
	default:
		field.SetString(raw)
	}
	return nil
}

// populateConfig check environment variables
// to set to the current configuration
func populateConfig(config *Config) error {
	value := reflect.ValueOf(config)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	for i := 0; i < value.NumField(); i++ {
		fieldType := value.Type().Field(i)
		tag := fieldType.Tag.Get("config")
		if defaultVal := fieldType.Tag.Get("default"); defaultVal != "" && value.Field(i).IsZero() {
			if err := setField(value.Field(i), defaultVal); err != nil {
				return err
			}
		}
		if tag == "" {
			continue
		}
		if env, exists := os.LookupEnv(tag); exists {
			if err := setField(value.Field(i), env); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadConfig return the Configuration based on the current environment
func LoadConfig() (*Config, error) {
	loadDotEnv("")
	var preset Config
	switch os.Getenv("ENVIRONMENT") {
	case "DEVELOPMENT":
		preset = *DevConfig
	case "TESTING":
		preset = *TestConfig
	default:
		preset = *ProdConfig
	}
	conf := &preset
	if err := populateConfig(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
