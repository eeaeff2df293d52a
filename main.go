package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/filerops/filerctl/agent"
	"github.com/filerops/filerctl/filer"
	"github.com/filerops/filerctl/model"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:  "filerctl",
		Usage: "drive a storage filer over its remote command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			setupLogging(c.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			versionCommand(),
			aggrCommand(),
			volCommand(),
			qtreeCommand(),
			snapCommand(),
			licenseCommand(),
			optionsCommand(),
			exportCommand(),
			agentCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogging(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// openFiler builds a Filer from the environment, prompting for the
// password on a terminal when telnet is configured without one.
func openFiler() (*filer.Filer, error) {
	cfg, err := env.ParseAs[model.FilerConfig]()
	if err != nil {
		return nil, err
	}
	if cfg.Protocol == model.ProtocolTelnet && cfg.Password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "%s@%s password: ", cfg.User, cfg.Host)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		cfg.Password = string(pw)
	}
	return filer.New(cfg)
}

// withFiler wraps a subcommand action with session setup and teardown.
func withFiler(fn func(ctx context.Context, f *filer.Filer, c *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		f, err := openFiler()
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(ctx, f, c)
	}
}

// table prints rows with aligned columns, header first.
func table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the filer's version banner",
		Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
			v, err := f.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}),
	}
}

func aggrCommand() *cli.Command {
	return &cli.Command{
		Name:  "aggr",
		Usage: "aggregate operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list aggregates",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					aggrs, err := f.Aggregates(ctx)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(aggrs))
					for _, a := range aggrs {
						rows = append(rows, []string{a.Name, a.State, a.Status, strings.Join(a.Options, ",")})
					}
					table([]string{"NAME", "STATE", "STATUS", "OPTIONS"}, rows)
					return nil
				}),
			},
		},
	}
}

func volCommand() *cli.Command {
	return &cli.Command{
		Name:  "vol",
		Usage: "volume operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list volumes",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					vols, err := f.Volumes(ctx)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(vols))
					for _, v := range vols {
						rows = append(rows, []string{v.Name, v.State, v.Aggregate, v.Status})
					}
					table([]string{"NAME", "STATE", "AGGREGATE", "STATUS"}, rows)
					return nil
				}),
			},
		},
	}
}

func qtreeCommand() *cli.Command {
	return &cli.Command{
		Name:  "qtree",
		Usage: "qtree operations",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list qtrees of a volume",
				ArgsUsage: "<volume>",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					vol := c.Args().First()
					if vol == "" {
						return cli.Exit("qtree list needs a volume name", 2)
					}
					qtrees, err := f.Qtrees(ctx, vol)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(qtrees))
					for _, q := range qtrees {
						name := q.Name
						if name == "" {
							name = "-"
						}
						rows = append(rows, []string{q.Volume, name, q.Style, q.Oplocks, q.Status})
					}
					table([]string{"VOLUME", "TREE", "STYLE", "OPLOCKS", "STATUS"}, rows)
					return nil
				}),
			},
		},
	}
}

func snapCommand() *cli.Command {
	return &cli.Command{
		Name:  "snap",
		Usage: "snapshot operations",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list snapshots of a volume",
				ArgsUsage: "<volume>",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					vol := c.Args().First()
					if vol == "" {
						return cli.Exit("snap list needs a volume name", 2)
					}
					snaps, err := f.Snapshots(ctx, vol)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(snaps))
					for _, s := range snaps {
						rows = append(rows, []string{s.Volume, s.Name, s.Date, s.Used, s.Total})
					}
					table([]string{"VOLUME", "NAME", "DATE", "USED", "TOTAL"}, rows)
					return nil
				}),
			},
		},
	}
}

func licenseCommand() *cli.Command {
	return &cli.Command{
		Name:  "license",
		Usage: "license operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list service licenses",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					lics, err := f.Licenses(ctx)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(lics))
					for _, l := range lics {
						code := l.Code
						if !l.Licensed {
							code = "not licensed"
						}
						rows = append(rows, []string{l.Service, l.Type, code})
					}
					table([]string{"SERVICE", "TYPE", "CODE"}, rows)
					return nil
				}),
			},
		},
	}
}

func optionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "options",
		Usage: "filer option operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list filer options",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					opts, err := f.Options(ctx)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(opts))
					for _, o := range opts {
						rows = append(rows, []string{o.Name, o.Value})
					}
					table([]string{"NAME", "VALUE"}, rows)
					return nil
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "NFS export operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list exports",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "inactive", Usage: "only persisted exports with no matching live entry"},
					&cli.BoolFlag{Name: "temporary", Usage: "only live-table-only exports"},
				},
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					var exports []*filer.Export
					var err error
					switch {
					case c.Bool("inactive"):
						exports, err = f.InactiveExports(ctx)
					case c.Bool("temporary"):
						exports, err = f.TemporaryExports(ctx)
					default:
						exports, err = f.Exports(ctx)
					}
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(exports))
					for _, e := range exports {
						state := "inactive"
						if e.Active() {
							state = "active"
						}
						rows = append(rows, []string{e.Path(), string(e.Type()), state, e.Attrs().String()})
					}
					table([]string{"PATH", "TYPE", "STATE", "OPTIONS"}, rows)
					return nil
				}),
			},
			{
				Name:      "sync",
				Usage:     "re-apply persisted exports whose live state diverged or is missing",
				ArgsUsage: "[path]",
				Action: withFiler(func(ctx context.Context, f *filer.Filer, c *cli.Command) error {
					exports, err := f.PermanentExports(ctx)
					if err != nil {
						return err
					}
					if path := c.Args().First(); path != "" {
						var match []*filer.Export
						for _, e := range exports {
							if e.Path() == path {
								match = append(match, e)
							}
						}
						if len(match) == 0 {
							return cli.Exit("no persisted export for "+path, 1)
						}
						exports = match
					}
					var synced int
					for _, e := range exports {
						if e.Active() {
							continue
						}
						if err := e.Update(ctx); err != nil {
							return err
						}
						synced++
					}
					log.Info().Int("synced", synced).Msg("exports synced")
					return nil
				}),
			},
		},
	}
}

func agentCommand() *cli.Command {
	return &cli.Command{
		Name:  "agent",
		Usage: "run the monitoring agent",
		Action: func(ctx context.Context, c *cli.Command) error {
			log.Info().Str("version", version).Str("commit", commit).Msg("starting filerctl agent")

			acfg, err := env.ParseAs[model.AgentConfig]()
			if err != nil {
				return err
			}
			f, err := openFiler()
			if err != nil {
				return err
			}
			defer f.Close()

			return agent.New(acfg, f).Run(ctx)
		},
	}
}
