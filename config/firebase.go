package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceAccount holds essential fields from your JSON key
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// LoadServiceAccount reads and sanity-checks a service account key file.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account %s: %w", path, err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse service account %s: %w", path, err)
	}
	if sa.Type != "service_account" {
		return nil, fmt.Errorf("service account %s: unexpected type %q", path, sa.Type)
	}
	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account %s: project_id, client_email and private_key are required", path)
	}
	return &sa, nil
}
