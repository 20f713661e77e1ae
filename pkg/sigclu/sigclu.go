// Package sigclu finds the significant cores of a partition ensemble: node
// groups that stay in one module across most partitions.
package sigclu

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-netensemble/pkg/partition"
	"github.com/dd0wney/cluso-netensemble/pkg/validation"
	"github.com/dd0wney/cluso-netensemble/pkg/visualization"
)

// ErrEmptyEnsemble is returned when there are no partitions to cluster
var ErrEmptyEnsemble = errors.New("partition ensemble is empty")

// MedoidReference selects the most central partition as reference
const MedoidReference = -1

// Options configure significance clustering
type Options struct {
	// Significance is the fraction of partitions allowed to split a core
	Significance float64 `yaml:"significance"`
	// MinCoreSize drops smaller cores
	MinCoreSize int `yaml:"min_core_size" validate:"min=1"`
	// Reference is the index of the reference partition, or MedoidReference
	Reference int `yaml:"reference" validate:"min=-1"`
}

// DefaultOptions returns 5% significance against the medoid partition
func DefaultOptions() Options {
	return Options{
		Significance: 0.05,
		MinCoreSize:  1,
		Reference:    MedoidReference,
	}
}

// Validate checks the options
func (o Options) Validate() error {
	return validation.NewConfigValidator("sigclu").
		OpenUnitInterval("significance", o.Significance).
		Struct("options", o).
		Validate()
}

// Clusterer computes cores from an ensemble of partitions
type Clusterer interface {
	Cluster(parts []partition.Partition, opts Options) (partition.Partition, error)
}

// Exporter is implemented by clusterers that can export a visual summary
// of their result
type Exporter interface {
	Export(parts []partition.Partition, cores partition.Partition, opts visualization.UpsetOptions) error
}

func checkReference(opts Options, n int) error {
	if opts.Reference >= n {
		return fmt.Errorf("sigclu.reference: index %d out of range for %d partitions", opts.Reference, n)
	}
	return nil
}
