package models

import (
	"fmt"
	"strings"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// Connection roles: a source organization is read from, a target written to.
const (
	ConnectionSource = "source"
	ConnectionTarget = "target"
)

// Connection holds the credentials for one Azure DevOps organization.
type Connection struct {
	Record
	Name         string
	Organization string
	BaseURL      string
	Token        string
	Type         string
	Active       bool
}

// NewConnection creates an active connection, deriving the base URL from the organization.
func NewConnection(name, organization, token, connType string) *Connection {
	organization = strings.TrimSuffix(strings.TrimPrefix(organization, "https://dev.azure.com/"), "/")
	return &Connection{
		Record:       NewRecord(),
		Name:         name,
		Organization: organization,
		BaseURL:      fmt.Sprintf("https://dev.azure.com/%s", organization),
		Token:        token,
		Type:         connType,
		Active:       true,
	}
}

// Validate checks required connection fields.
func (c *Connection) Validate() error {
	if c.Organization == "" {
		return fmt.Errorf("%w: organization is required", shared.ErrMissingCredentials)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: access token is required", shared.ErrMissingCredentials)
	}
	if c.Type != ConnectionSource && c.Type != ConnectionTarget {
		return fmt.Errorf("%w: connection type must be source or target", shared.ErrInvalidInput)
	}
	return nil
}
