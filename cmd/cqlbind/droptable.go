package main

import (
	"context"
	"fmt"
)

type DropTableCommand struct {
	Table string `arg:"" help:"The table to drop." required:""`
}

func (c *DropTableCommand) Run(ctx context.Context, g GlobalFlags) error {
	client, err := g.Client()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Exec(ctx, "DROP TABLE IF EXISTS "+g.qualify(c.Table)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	return nil
}
