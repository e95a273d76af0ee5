// The straw CLI dumps contact records out of .hic files, local or served over
// HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/renzoespinoza10/straw"
	"github.com/renzoespinoza10/straw/hic"
	"github.com/renzoespinoza10/straw/metrics"
	"github.com/renzoespinoza10/straw/source"
)

var versionGitCommit string

func sourceOptions(c *cli.Context) []source.Option {
	return []source.Option{
		source.WithTimeout(c.Duration("timeout")),
		source.WithRetryMax(c.Int("retry-max")),
		source.WithUserAgent(c.String("user-agent")),
		source.WithLogger(logrus.NewEntry(logrus.StandardLogger())),
	}
}

func openHiC(c *cli.Context, name string) (*hic.HiC, source.Source, error) {
	src, err := source.Open(name, sourceOptions(c)...)
	if err != nil {
		return nil, nil, err
	}
	h, err := hic.Open(c.Context, src, hic.WithWorkers(c.Int("workers")))
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	return h, src, nil
}

func dump(c *cli.Context, out io.Writer) error {
	if c.NArg() != 7 {
		return fmt.Errorf("expected 7 arguments, got %d", c.NArg())
	}
	args := c.Args().Slice()
	res, err := strconv.ParseInt(args[6], 10, 32)
	if err != nil {
		return errors.Wrapf(hic.ErrBadResolution, "%q", args[6])
	}
	q := hic.Query{
		Matrix:     args[0],
		Norm:       args[1],
		Region1:    args[3],
		Region2:    args[4],
		Unit:       args[5],
		Resolution: int32(res),
	}

	if !c.Bool("dense") {
		recs, err := straw.Straw(c.Context, q.Matrix, q.Norm, args[2], q.Region1, q.Region2, q.Unit, q.Resolution,
			straw.WithWorkers(c.Int("workers")),
			straw.WithSourceOptions(sourceOptions(c)...),
		)
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Fprintf(out, "%d\t%d\t%g\n", r.BinX, r.BinY, r.Counts)
		}
		return nil
	}

	h, src, err := openHiC(c, args[2])
	if err != nil {
		return err
	}
	defer src.Close()
	m, err := h.Dense(c.Context, q)
	if err != nil {
		return err
	}
	fmt.Fprint(out, hic.SprintMatrix(m))
	return nil
}

func info(c *cli.Context, out io.Writer) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected a file or URL")
	}
	h, src, err := openHiC(c, c.Args().First())
	if err != nil {
		return err
	}
	defer src.Close()
	s, err := h.Describe(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprint(out, s)
	return nil
}

func newApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "straw",
		Usage:   "Read contact matrices from .hic files",
		Version: versionGitCommit,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"STRAW_LOG_LEVEL"}},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "Number of blocks decoded concurrently", EnvVars: []string{"STRAW_WORKERS"}},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "Timeout of each HTTP request", EnvVars: []string{"STRAW_TIMEOUT"}},
			&cli.IntFlag{Name: "retry-max", Value: 3, Usage: "Retries of a failed HTTP request", EnvVars: []string{"STRAW_RETRY_MAX"}},
			&cli.StringFlag{Name: "user-agent", Value: "straw", Usage: "User-Agent of HTTP requests", EnvVars: []string{"STRAW_USER_AGENT"}},
			&cli.StringFlag{Name: "metrics-file", Usage: "Write metrics in the Prometheus text format to this file on exit", EnvVars: []string{"STRAW_METRICS_FILE"}},
		},
		Before: func(c *cli.Context) error {
			logLevel, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logrus.SetLevel(logLevel)
			return nil
		},
		After: func(c *cli.Context) error {
			if path := c.String("metrics-file"); path != "" {
				return errors.Wrap(metrics.WriteTextfile(path), "write metrics")
			}
			return nil
		},
	}
	app.Writer = out

	app.Commands = []*cli.Command{
		{
			Name:      "dump",
			Usage:     "Print the records of a region pair",
			ArgsUsage: "<observed|oe> <norm> <file|url> <region1> <region2> <BP|FRAG> <resolution>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dense", Usage: "Print a tab separated matrix instead of records"},
			},
			Action: func(c *cli.Context) error {
				return dump(c, out)
			},
		},
		{
			Name:      "info",
			Usage:     "Print the header and the matrices of a file",
			ArgsUsage: "<file|url>",
			Action: func(c *cli.Context) error {
				return info(c, out)
			},
		},
		{
			Name:      "magic",
			Usage:     "Print the format of a file",
			ArgsUsage: "<file|url>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fmt.Errorf("expected a file or URL")
				}
				kind, err := straw.Magic(c.Context, c.Args().First(), sourceOptions(c)...)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, kind)
				return nil
			},
		},
	}
	return app
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := newApp(os.Stdout).RunContext(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}
