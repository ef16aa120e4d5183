package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for csprecommend.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csprecommend",
		Short: "Recommend a Content-Security-Policy for an HTML document",
		Long: `csprecommend analyses an HTML document and recommends a Content-Security-Policy
that permits the origins of every script, stylesheet, image, font, frame, object
and media resource the document references.

It also lists inline scripts, inline styles, event handler attributes and
javascript: URLs, which a policy without 'unsafe-inline' would block.

Documents are read from http(s) URLs, local files or stdin. Onion services
are reachable through an external SOCKS5 proxy (--proxy) or an embedded
Tor daemon (--tor).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
