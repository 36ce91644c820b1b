package main

import (
	"context"
	"fmt"
)

type ExecCommand struct {
	CQL    string   `arg:"" help:"The CQL statement to execute." required:""`
	Values []string `help:"Positional values to bind to the statement's placeholders."`
}

func (c *ExecCommand) Run(ctx context.Context, g GlobalFlags) error {
	client, err := g.Client()
	if err != nil {
		return err
	}
	defer client.Close()

	values := make([]any, len(c.Values))
	for i, v := range c.Values {
		values[i] = v
	}
	if err := client.Exec(ctx, c.CQL, values...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}
