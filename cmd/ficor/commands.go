package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ficor/internal"
	"github.com/starford/ficor/internal/apperr"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Create an empty store file, replacing any existing one",
			Action: action(0, 0, func(_ *cli.Command) *internal.Request { return &internal.Request{Op: internal.OpInit} }),
		},
		{
			Name:      "add",
			Usage:     "Add a file record",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Colon-delimited tags, e.g. work:urgent"},
				&cli.StringFlag{Name: "info", Aliases: []string{"i"}, Usage: "Free-text info"},
			},
			Action: action(1, 1, func(cmd *cli.Command) *internal.Request {
				req := &internal.Request{
					Op:   internal.OpAdd,
					Path: cmd.Args().Get(0),
					Tags: cmd.String("tags"),
				}
				if cmd.IsSet("info") {
					info := cmd.String("info")
					req.Info = &info
				}
				return req
			}),
		},
		{
			Name:      "rm",
			Usage:     "Remove a file record",
			ArgsUsage: "PATH",
			Action: action(1, 1, func(cmd *cli.Command) *internal.Request {
				return &internal.Request{Op: internal.OpRemove, Path: cmd.Args().Get(0)}
			}),
		},
		{
			Name:      "tag",
			Usage:     "Append a tag to a file record",
			ArgsUsage: "PATH TAG",
			Action: action(1, 2, func(cmd *cli.Command) *internal.Request {
				return &internal.Request{Op: internal.OpAddTag, Path: cmd.Args().Get(0), Tag: cmd.Args().Get(1)}
			}),
		},
		{
			Name:      "untag",
			Usage:     "Remove the tags of an expression from a file record",
			ArgsUsage: "PATH TAGS",
			Action: action(1, 2, func(cmd *cli.Command) *internal.Request {
				return &internal.Request{Op: internal.OpRemoveTag, Path: cmd.Args().Get(0), Tags: cmd.Args().Get(1)}
			}),
		},
		{
			Name:  "list",
			Usage: "List file records, optionally filtered by tags",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "include", Aliases: []string{"in"}, Usage: "Only records having all of these tags"},
				&cli.StringFlag{Name: "exclude", Aliases: []string{"ex"}, Usage: "Only records having none of these tags"},
				&cli.BoolFlag{Name: "info", Aliases: []string{"i"}, Usage: "Show info"},
				&cli.BoolFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Show tags"},
			},
			Action: action(0, 0, func(cmd *cli.Command) *internal.Request {
				return &internal.Request{
					Op:       internal.OpList,
					Include:  cmd.String("include"),
					Exclude:  cmd.String("exclude"),
					ShowInfo: cmd.Bool("info"),
					ShowTags: cmd.Bool("tags"),
				}
			}),
		},
		{
			Name:   "dump",
			Usage:  "Print every record verbosely",
			Action: action(0, 0, func(_ *cli.Command) *internal.Request { return &internal.Request{Op: internal.OpDump} }),
		},
	}
}

// action checks the positional argument count before building the request.
// Missing optional arguments are left to request validation, which reports
// them as missing companion values.
func action(required, most int, build func(*cli.Command) *internal.Request) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		n := cmd.Args().Len()
		if n < required {
			return fmt.Errorf("%w: %s expects %s", apperr.ErrArgument, cmd.Name, cmd.ArgsUsage)
		}
		if n > most {
			return fmt.Errorf("%w: %s takes at most %d arguments, got %d", apperr.ErrArgument, cmd.Name, most, n)
		}
		return run(ctx, cmd, build(cmd))
	}
}
