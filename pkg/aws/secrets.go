package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient reads Secrets Manager values and caches them for the life of
// the process.
type SecretsClient struct {
	client *secretsmanager.Client
	cache  map[string]string
	mu     sync.RWMutex
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]string),
	}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = *out.SecretString
	s.mu.Unlock()

	return *out.SecretString, nil
}

// DBCredentials is the JSON shape of the database secret. Empty fields leave
// the environment value in place.
type DBCredentials struct {
	User     string `json:"POSTGRES_USER"`
	Password string `json:"POSTGRES_PASSWORD"`
	DB       string `json:"POSTGRES_DB"`
	Host     string `json:"POSTGRES_HOST"`
	Port     string `json:"POSTGRES_PORT"`
}

// GetDBCredentials fetches and decodes a database credentials secret.
func (s *SecretsClient) GetDBCredentials(ctx context.Context, name string) (*DBCredentials, error) {
	raw, err := s.GetSecret(ctx, name)
	if err != nil {
		return nil, err
	}
	return ParseDBCredentials(raw)
}

func ParseDBCredentials(raw string) (*DBCredentials, error) {
	var creds DBCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("decode db credentials: %w", err)
	}
	if creds.User == "" && creds.Password == "" && creds.DB == "" && creds.Host == "" && creds.Port == "" {
		return nil, fmt.Errorf("db credentials secret is empty")
	}
	return &creds, nil
}
