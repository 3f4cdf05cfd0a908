package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"

	"coursereg/validate"
)

type Config struct {
	AppName             string                 `json:"app_name"`
	ListenIP            string                 `json:"listen_ip"`
	ListenPort          int                    `json:"listen_port"`
	SessionKey          string                 `json:"session_key"`
	DBPath              string                 `json:"db_path"`
	BootstrapSecretPath string                 `json:"bootstrap_secret_path"`
	RequireRotation     bool                   `json:"require_rotation"`
	EnableCaptcha       bool                   `json:"enable_captcha"`
	ChoiceGroups        []validate.ChoiceGroup `json:"choice_groups"`
}

var AppConfig Config

func LoadConfig(path string) error {
	// A local .env may carry the overrides; missing file is fine.
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		return err
	}

	// Override with environment variables if present
	if envKey := os.Getenv("COURSEREG_SESSION_KEY"); envKey != "" {
		AppConfig.SessionKey = envKey
	}
	if envDB := os.Getenv("COURSEREG_DB_PATH"); envDB != "" {
		AppConfig.DBPath = envDB
	}

	// If no key is provided or it's the placeholder, generate a secure random one
	if AppConfig.SessionKey == "" || AppConfig.SessionKey == "CHANGE_ME_IN_PRODUCTION" {
		log.Println("WARNING: No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return err
		}
		AppConfig.SessionKey = hex.EncodeToString(randomKey)
	}

	if AppConfig.DBPath == "" {
		AppConfig.DBPath = "./coursereg.db"
	}
	if AppConfig.BootstrapSecretPath == "" {
		AppConfig.BootstrapSecretPath = "./admin-credentials.txt"
	}

	return nil
}

// Profile returns the submission shape from the configured choice
// groups, defaulting to the theory/lab split form when the config
// file does not define any.
func Profile() validate.Profile {
	if len(AppConfig.ChoiceGroups) == 0 {
		return validate.SplitProfile()
	}
	return validate.Profile{Groups: AppConfig.ChoiceGroups}
}
