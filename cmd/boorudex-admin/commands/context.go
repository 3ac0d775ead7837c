package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/internal/admin"
	"github.com/lorehash/boorudex/internal/config"
	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/internal/utils"
)

// buildController loads config off the --config flag and wires a
// Controller against the live Redis instance it names. The returned
// close func must be deferred by the caller.
func buildController(c *cli.Context) (*admin.Controller, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("loading config: %v", err), 1)
	}

	client, err := kv.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("connecting to redis: %v", err), 1)
	}

	log, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("configuring logger: %v", err), 1)
	}

	store := index.NewKVStore(client)
	up := upstream.New(cfg.UpstreamBaseURL, cfg.IndexerUA, log.Logger)
	ctl := admin.New(client, store, up)

	return ctl, func() { _ = client.Close() }, nil
}
