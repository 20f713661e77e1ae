package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-netensemble/pkg/ensemble"
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/resample"
)

func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap <edges>",
		Short: "Write bootstrap replicates of a network as edge lists",
		Args:  cobra.ExactArgs(1),
		RunE:  runBootstrap,
	}

	f := cmd.Flags()
	f.String("out", "replicates", "Output directory")
	f.Uint64("seed", ensemble.DefaultSeed, "Random seed")
	f.Int("bootstraps", 100, "Number of replicates")
	f.Int("workers", 1, "Concurrent workers")
	return cmd
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	nets, err := readNetworks(cmd, args)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	seed, _ := cmd.Flags().GetUint64("seed")
	count, _ := cmd.Flags().GetInt("bootstraps")
	workers, _ := cmd.Flags().GetInt("workers")

	logger := logging.NewJSONLogger(cmd.ErrOrStderr(), logging.InfoLevel)
	reps, err := resample.Bootstrap(nets[0], count, seed,
		resample.WithWorkers(workers),
		resample.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	width := len(fmt.Sprint(count - 1))
	for i, rep := range reps {
		path := filepath.Join(out, fmt.Sprintf("replicate-%0*d.tsv", width, i))
		if err := writeNetwork(path, rep); err != nil {
			return err
		}
	}

	logger.Info("replicates written", logging.Count(len(reps)), logging.Path(out), logging.Seed(seed))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d replicates to %s\n", len(reps), out)
	return nil
}

func writeNetwork(path string, net *network.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := network.WriteEdgeList(f, net); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
