package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const ENV_FILENAME = ".env"

// InitEnvironmentVariables loads the local .env file when one exists.
// Production deployments configure the process environment directly and ship
// no .env file, so a missing file is not an error there or anywhere else.
func InitEnvironmentVariables() error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if _, err := os.Stat(ENV_FILENAME); os.IsNotExist(err) {
		log.Debugf("no %s file found, using process environment", ENV_FILENAME)
		return nil
	}

	if err := godotenv.Load(ENV_FILENAME); err != nil {
		return fmt.Errorf("failed to load %s file: %v", ENV_FILENAME, err)
	}

	return nil
}
