package main

import (
	"context"
	"fmt"
)

type TruncateCommand struct {
	Table string `arg:"" help:"The table to truncate." required:""`
}

func (c *TruncateCommand) Run(ctx context.Context, g GlobalFlags) error {
	client, err := g.Client()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Exec(ctx, "TRUNCATE "+g.qualify(c.Table)); err != nil {
		return fmt.Errorf("failed to truncate table: %w", err)
	}
	return nil
}
