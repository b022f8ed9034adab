package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ColeHoward/fileserve/internal/config"
	"github.com/ColeHoward/fileserve/internal/logging"
	"github.com/ColeHoward/fileserve/internal/server"
)

const usage = "Usage: fileserve WEBSITE_FOLDER_NAME"

var errUsage = errors.New("wrong number of arguments")

type serveFunc func(cfg *config.Config, logger *slog.Logger) error

func newRootCmd(stdout, stderr io.Writer, serve serveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "fileserve WEBSITE_FOLDER_NAME",
		Short: "Serve html, pdf, css and jpg files from a folder",
		Long: `Serve the files under WEBSITE_FOLDER_NAME on 127.0.0.1:7878.

Requests for missing files or unsupported extensions get the folder's
notfound.html with a 404 status.`,
		// every argument is positional, including ones that look like flags
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(stdout, usage)
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			v.Set("root", args[0])
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(stderr,
				logging.LevelFromString(cfg.Logging.Level),
				logging.Format(cfg.Logging.Format))
			return serve(cfg, logger)
		},
	}
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer, serve serveFunc) int {
	cmd := newRootCmd(stdout, stderr, serve)
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			logger := logging.NewLogger(stderr, slog.LevelInfo, logging.HumanFormat)
			logger.Error("Command execution failed", "error", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, server.StartServer))
}
