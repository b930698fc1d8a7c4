package config

import (
	"fmt"
	"os"
)

// Credentials holds the brokerage and notification secrets. They are read
// from the environment exactly once, before any network call.
type Credentials struct {
	APIKey      string
	SecretKey   string
	CAPath      string
	CAPassword  string
	PersonID    string
	NotifyToken string
}

// MissingEnvError reports a required environment variable that is not set.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// LoadCredentials reads all required secrets from the environment. The first
// missing variable aborts with a *MissingEnvError.
func LoadCredentials() (*Credentials, error) {
	envs := map[string]*string{}
	creds := &Credentials{}
	envs["SHIOAJI_API_KEY"] = &creds.APIKey
	envs["SHIOAJI_SECRET_KEY"] = &creds.SecretKey
	envs["SHIOAJI_CA_PATH"] = &creds.CAPath
	envs["SHIOAJI_CA_PASSWD"] = &creds.CAPassword
	envs["SHIOAJI_PERSON_ID"] = &creds.PersonID
	envs["LINE_NOTIFY_TOKEN"] = &creds.NotifyToken

	for _, name := range []string{
		"SHIOAJI_API_KEY",
		"SHIOAJI_SECRET_KEY",
		"SHIOAJI_PERSON_ID",
		"SHIOAJI_CA_PATH",
		"SHIOAJI_CA_PASSWD",
		"LINE_NOTIFY_TOKEN",
	} {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return nil, &MissingEnvError{Name: name}
		}
		*envs[name] = v
	}
	return creds, nil
}
