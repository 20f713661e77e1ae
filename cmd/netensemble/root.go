package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "netensemble",
		Short: "Partition ensembles and significant cores of weighted networks",
		Long: `netensemble partitions either several networks or bootstrap replicates of
one network, then finds the groups of nodes that stay together across the
ensemble and the nodes that do not.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("delimiter", "", "Edge list column delimiter (default: whitespace or comma)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newBootstrapCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of netensemble",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netensemble version %s\n", Version)
		},
	}
}

// readNetworks loads one network per edge list file
func readNetworks(cmd *cobra.Command, paths []string) ([]*network.Network, error) {
	opts := network.DefaultReadOptions()
	if d, _ := cmd.Flags().GetString("delimiter"); d != "" {
		runes := []rune(d)
		if len(runes) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		opts.Delimiter = runes[0]
	}

	nets := make([]*network.Network, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		net, err := network.ReadEdgeList(f, opts)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		nets = append(nets, net)
	}
	return nets, nil
}
