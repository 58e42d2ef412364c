package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/GabeSucich/elmo-fire-bets-backend/config"
	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/urfave/cli/v2"
)

// env is the wiring shared by every command
type env struct {
	db      *database.MongoDB
	auth    *services.AuthService
	seasons *services.SeasonService
	parlays *services.ParlayService
	backups *services.BackupService
}

func connect() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		return nil, err
	}
	repos := database.NewRepositories(db)
	cache := services.NewMemoryPerformanceCache(0)

	return &env{
		db:   db,
		auth: services.NewAuthService(repos.Users, repos.Counters, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		seasons: services.NewSeasonService(repos.Seasons, repos.Parlays, repos.Users, repos.Counters, repos.Snapshots,
			nil, cache, services.NewChartService(), nil),
		parlays: services.NewParlayService(repos.Parlays, repos.Seasons, repos.Counters, repos.PropTargets, cache, nil,
			services.ParlayOptions{SeasonScopedOrder: cfg.SeasonScopedOrder(), MaxWriteRetries: cfg.App.MaxWriteRetries}),
		backups: services.NewBackupService(db, cfg.ToBackupConfig()),
	}, nil
}

// withEnv opens the database for the duration of one command
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := connect()
		if err != nil {
			return err
		}
		defer e.db.Close()
		return action(c, e)
	}
}

func main() {
	app := &cli.App{
		Name:  "ledgerctl",
		Usage: "administer the parlay ledger",
		Commands: []*cli.Command{
			usersCommand(),
			seasonsCommand(),
			parlaysCommand(),
			standingsCommand(),
			backupCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "manage accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"LEDGER_NEW_PASSWORD"}},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					resp, err := e.auth.Register(c.Context, models.RegisterRequest{
						Username:  c.String("username"),
						Password:  c.String("password"),
						FirstName: c.String("first-name"),
						LastName:  c.String("last-name"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Created user %s (id %d)\n", resp.User.Username, resp.User.ID)
					return nil
				}),
			},
		},
	}
}

func seasonsCommand() *cli.Command {
	return &cli.Command{
		Name:  "seasons",
		Usage: "manage gambling seasons",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "start a new season",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Required: true},
					&cli.StringFlag{Name: "name"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					name := c.String("name")
					if name == "" {
						name = fmt.Sprintf("%d Season", c.Int("year"))
					}
					season, err := e.seasons.Create(c.Context, c.Int("year"), name)
					if err != nil {
						return err
					}
					fmt.Printf("Created season %q (id %d)\n", season.Name, season.ID)
					return nil
				}),
			},
			{
				Name:      "add-gambler",
				Usage:     "enroll a user in a season",
				ArgsUsage: "<season-id> <user-id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					ids, err := intArgs(c, 2)
					if err != nil {
						return err
					}
					gambler, err := e.seasons.AddGambler(c.Context, ids[0], ids[1])
					if err != nil {
						return err
					}
					fmt.Printf("User %d is gambler %d in season %d\n", ids[1], gambler.ID, ids[0])
					return nil
				}),
			},
			{
				Name:      "complete",
				Usage:     "close a season to further changes",
				ArgsUsage: "<season-id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					ids, err := intArgs(c, 1)
					if err != nil {
						return err
					}
					return e.seasons.Complete(c.Context, ids[0])
				}),
			},
		},
	}
}

func parlaysCommand() *cli.Command {
	return &cli.Command{
		Name:  "parlays",
		Usage: "maintain parlays",
		Subcommands: []*cli.Command{
			{
				Name:      "swap-order",
				Usage:     "exchange the replay positions of two parlays",
				ArgsUsage: "<first-parlay-id> <second-parlay-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "as-user", Required: true, Usage: "a member of the parlays' season"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					ids, err := intArgs(c, 2)
					if err != nil {
						return err
					}
					if err := e.parlays.SwapOrder(c.Context, c.Int("as-user"), ids[0], ids[1]); err != nil {
						return err
					}
					fmt.Printf("Swapped parlays %d and %d\n", ids[0], ids[1])
					return nil
				}),
			},
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "inspect season standings",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "print the corrected-score leaderboard",
				ArgsUsage: "<season-id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					ids, err := intArgs(c, 1)
					if err != nil {
						return err
					}
					season, entries, err := e.seasons.Standings(c.Context, ids[0])
					if err != nil {
						return err
					}
					fmt.Printf("%s (%d)\n", season.Name, season.Year)
					tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "RANK\tGAMBLER\tSCORE\tWIN RATE\tPICKS")
					for i, entry := range entries {
						winRate := "-"
						if entry.WinRate != nil {
							winRate = fmt.Sprintf("%.2f", *entry.WinRate)
						}
						fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%d\n", i+1, entry.Name, entry.CorrectedScore, winRate, entry.Picks)
					}
					return tw.Flush()
				}),
			},
		},
	}
}

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "create, list and restore backups",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "back up every ledger collection now",
				Action: withEnv(func(c *cli.Context, e *env) error {
					timestamp, err := e.backups.CreateBackup(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Created backup %s\n", timestamp)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list backups, oldest first",
				Action: withEnv(func(c *cli.Context, e *env) error {
					backups, err := e.backups.ListBackups()
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "TIMESTAMP\tSIZE\tCOLLECTIONS")
					for _, b := range backups {
						fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Timestamp, b.Size, strings.Join(b.Collections, ","))
					}
					return tw.Flush()
				}),
			},
			{
				Name:      "restore",
				Usage:     "replace collections with a backup's contents",
				ArgsUsage: "<timestamp>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "collection", Usage: "restrict the restore (repeatable)"},
					&cli.BoolFlag{Name: "yes", Usage: "skip the confirmation check"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					timestamp := c.Args().First()
					if timestamp == "" {
						return cli.Exit("a backup timestamp is required", 2)
					}
					if !c.Bool("yes") {
						return cli.Exit("restore drops existing documents; re-run with --yes", 2)
					}
					if err := e.backups.RestoreBackup(c.Context, timestamp, c.StringSlice("collection")); err != nil {
						return err
					}
					fmt.Printf("Restored backup %s\n", timestamp)
					return nil
				}),
			},
		},
	}
}

// intArgs parses exactly n positive integer arguments
func intArgs(c *cli.Context, n int) ([]int, error) {
	if c.NArg() != n {
		return nil, cli.Exit(fmt.Sprintf("expected %d arguments: %s", n, c.Command.ArgsUsage), 2)
	}
	ids := make([]int, n)
	for i := range ids {
		v, err := strconv.Atoi(c.Args().Get(i))
		if err != nil || v <= 0 {
			return nil, cli.Exit(fmt.Sprintf("invalid id %q", c.Args().Get(i)), 2)
		}
		ids[i] = v
	}
	return ids, nil
}
