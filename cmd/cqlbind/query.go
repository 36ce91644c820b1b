package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

type QueryCommand struct {
	CQL    string   `arg:"" help:"The CQL query to run." required:""`
	Values []string `help:"Positional values to bind to the query's placeholders."`
}

func (c *QueryCommand) Run(ctx context.Context, g GlobalFlags) error {
	client, err := g.Client()
	if err != nil {
		return err
	}
	defer client.Close()

	values := make([]any, len(c.Values))
	for i, v := range c.Values {
		values[i] = v
	}
	rows, err := client.Query(ctx, c.CQL, values...)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
