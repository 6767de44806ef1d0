package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/internal/kernel"
	"github.com/shashiranjanraj/storehub/internal/server"
	"github.com/shashiranjanraj/storehub/pkg/app"
	"github.com/shashiranjanraj/storehub/pkg/logger"
)

var portFlag string

// storehub serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
			defer cancel()
			if err := a.Close(closeCtx); err != nil {
				logger.Warn("shutdown incomplete", "error", err.Error())
			}
		}()

		port := portFlag
		if port == "" {
			port = config.AppPort()
		}
		return server.Run(ctx, server.Config{
			Addr:            ":" + port,
			ShutdownTimeout: config.ShutdownTimeout(),
		}, a.Router(ctx).Handler())
	},
}

// storehub route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		r := kernel.NewRouter(ctx, kernel.Options{Services: services.Set{}})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on (default APP_PORT)")
}
