package main

import (
	"context"
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConnectionsList lists stored connections without their tokens.
func (r *Runner) ConnectionsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	conns, err := r.connections.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}

	if len(conns) == 0 {
		r.writePlain("No connections stored. Run 'adomig connections add' first.\n")
		return nil
	}

	r.writePlain("%-36s %-16s %-20s %-8s %s\n", "ID", "NAME", "ORGANIZATION", "TYPE", "ACTIVE")
	for _, conn := range conns {
		r.writePlain("%-36s %-16s %-20s %-8s %t\n",
			conn.ID(), conn.Name, conn.Organization, conn.Type, conn.Active)
	}

	return nil
}

// ConnectionsAdd stores a new connection after validating it.
func (r *Runner) ConnectionsAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	conn := models.NewConnection(cmd.String("name"), cmd.String("organization"), cmd.String("token"), cmd.String("type"))
	if err := conn.Validate(); err != nil {
		return err
	}

	if err := r.connections.Create(conn); err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}

	r.logger.Info("connection stored", "id", conn.ID(), "organization", conn.Organization)
	r.writePlain("✓ Connection '%s' stored (%s)\n", conn.Name, conn.ID())
	return nil
}

// ConnectionsTest verifies a stored connection's credentials against the organization.
func (r *Runner) ConnectionsTest(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	id := cmd.StringArg("id")

	var conn *models.Connection
	var err error
	if id == "" {
		conn, err = r.connections.ActiveSource()
	} else {
		conn, err = r.connections.Get(id)
	}
	if err != nil {
		return err
	}

	r.writePlain("Testing connection to %s...\n", conn.Organization)

	source := r.source
	if source == nil {
		source, err = services.NewAzureDevOpsService(ctx, conn)
		if err != nil {
			return err
		}
	}

	if err := source.TestConnection(ctx); err != nil {
		r.writePlain("✗ Connection failed: %v\n", err)
		return fmt.Errorf("%w: %v", shared.ErrConnectionFailed, err)
	}

	r.writePlain("✓ Connection to %s verified\n", conn.Organization)
	return nil
}
