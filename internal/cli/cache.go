package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/cache"
	"github.com/matzehuels/mydungeon/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the fetched-numbers cache",
		Long: `Fetched number sequences are cached when cache.backend is "file" or
"redis". These commands operate on the configured backend.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheForgetCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// withCache opens the configured cache for the duration of fn.
func (c *CLI) withCache(ctx context.Context, fn func(cache.Cache) error) error {
	if c.Config.Cache.Backend == cacheNone {
		printInfo("Caching is disabled (cache.backend = %q)", cacheNone)
		return nil
	}
	cc, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	defer cc.Close()
	return fn(cc)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached number sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCache(cmd.Context(), func(cc cache.Cache) error {
				cl, ok := cc.(cache.Clearer)
				if !ok {
					return fmt.Errorf("cache backend %q cannot be cleared", c.Config.Cache.Backend)
				}
				if err := cl.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared %s cache", c.Config.Cache.Backend)
				return nil
			})
		},
	}
}

// cacheForgetCommand creates the "cache forget" subcommand.
func (c *CLI) cacheForgetCommand() *cobra.Command {
	var date, clock string

	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Remove the cached numbers of one birth date and time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateBirth(date, clock); err != nil {
				return err
			}
			return c.withCache(cmd.Context(), func(cc cache.Cache) error {
				key := cache.NewDefaultKeyer().NumbersKey(c.fetchSource(), date, clock)
				if err := cc.Delete(cmd.Context(), key); err != nil {
					return err
				}
				printSuccess("Forgot %s %s", date, clock)
				printDetail("key: %s", key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "birth time (HH:MM)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("time")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cache entries are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			switch cc.Backend {
			case cacheFile:
				dir := cc.Dir
				if dir == "" {
					def, err := cache.DefaultDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = def
				}
				fmt.Println(dir)
			case cacheRedis:
				fmt.Println(cc.RedisURL + " (prefix " + cc.Prefix + ")")
			default:
				printWarning("Caching is disabled")
			}
			return nil
		},
	}
}
