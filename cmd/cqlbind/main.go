package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cqlbind/cqlbind"
	"github.com/go-kit/log"
)

type GlobalFlags struct {
	Addresses   string        `help:"Comma-separated hostnames or IPs of Cassandra instances." default:"localhost"`
	Port        int           `help:"Port that Cassandra is running on." default:"9042"`
	Keyspace    string        `help:"Keyspace to use." required:""`
	Consistency string        `help:"Consistency level." default:"QUORUM"`
	Username    string        `help:"Username to use when connecting."`
	Password    string        `help:"Password to use when connecting."`
	Timeout     time.Duration `help:"Connection timeout." default:"600ms"`
	Verbose     bool          `help:"Log failed statements to stderr."`
}

func (g GlobalFlags) Config() cqlbind.Config {
	cfg := cqlbind.Config{
		Addresses:   g.Addresses,
		Port:        g.Port,
		Keyspace:    g.Keyspace,
		Consistency: g.Consistency,
		Timeout:     g.Timeout,
	}
	if g.Username != "" {
		cfg.Auth = true
		cfg.Username = g.Username
		cfg.Password = g.Password
	}
	return cfg
}

func (g GlobalFlags) Client() (*cqlbind.Client, error) {
	logger := log.NewNopLogger()
	if g.Verbose {
		logger = log.NewLogfmtLogger(os.Stderr)
	}
	session, err := cqlbind.NewSession(g.Config(), logger, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return cqlbind.NewClient(session, g.Keyspace, cqlbind.WithLogger(logger))
}

func (g GlobalFlags) qualify(table string) string {
	if strings.Contains(table, ".") {
		return table
	}
	return g.Keyspace + "." + table
}

type CLI struct {
	GlobalFlags

	Exec           ExecCommand           `cmd:"exec" help:"Execute a CQL statement."`
	Query          QueryCommand          `cmd:"query" help:"Run a CQL query and print the rows as JSON."`
	CreateKeyspace CreateKeyspaceCommand `cmd:"create-keyspace" help:"Create the keyspace if it doesn't exist."`
	Truncate       TruncateCommand       `cmd:"truncate" help:"Remove all rows from a table."`
	DropTable      DropTableCommand      `cmd:"drop-table" help:"Drop a table."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli,
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(cli.GlobalFlags, (*GlobalFlags)(nil)),
	)
	if err := kctx.Run(ctx, cli.GlobalFlags); err != nil {
		fmt.Println(err)

		os.Exit(1)
	}
}
