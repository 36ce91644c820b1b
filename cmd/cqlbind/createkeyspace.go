package main

import (
	"context"
	"fmt"
)

type CreateKeyspaceCommand struct {
	ReplicationFactor int `help:"Replication factor for the keyspace." default:"1"`
}

func (c *CreateKeyspaceCommand) Run(ctx context.Context, g GlobalFlags) error {
	cfg := g.Config()
	cfg.ReplicationFactor = c.ReplicationFactor
	if err := cfg.CreateKeyspace(); err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}
	return nil
}
