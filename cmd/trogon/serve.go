// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrcribb/trogon/internal/logging"
	"github.com/jrcribb/trogon/internal/sshserver"
	"github.com/jrcribb/trogon/pkg/schema"
)

var (
	serveHost    string
	servePort    int
	serveHostKey string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample CLI's builder over SSH",
		Long: `Starts an SSH server where each session gets its own builder over
the bundled sample CLI. Committed invocations are echoed to the session.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "address to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 2222, "port to listen on")
	serveCmd.Flags().StringVar(&serveHostKey, "host-key", "", "SSH host key path (generated when missing)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	tree, err := schema.Discover(newSampleCLI())
	if err != nil {
		return err
	}

	srv, err := sshserver.New(sshserver.Config{
		Host:          serveHost,
		Port:          servePort,
		HostKeyPath:   serveHostKey,
		AppName:       "delivery",
		Root:          tree,
		DeclaredOrder: cfg.Serializer.DeclaredOrder,
		ColorScheme:   cfg.UI.ColorScheme,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("listening on %s (ssh -p %d %s)\n", srv.Addr(), servePort, serveHost)
	return srv.Wait()
}
