package ensemble

// Mode is fixed at construction from the number of source networks
type Mode int

const (
	// SingleNetworkBootstrap resamples one network into replicates
	SingleNetworkBootstrap Mode = iota
	// MultiNetwork partitions each given network directly
	MultiNetwork
)

func (m Mode) String() string {
	switch m {
	case SingleNetworkBootstrap:
		return "single_network_bootstrap"
	case MultiNetwork:
		return "multi_network"
	default:
		return "unknown"
	}
}

// Stage is the furthest result an Ensemble holds
type Stage int

const (
	Initial Stage = iota
	Bootstrapped
	Partitioned
	CoresComputed
)

func (s Stage) String() string {
	switch s {
	case Initial:
		return "initial"
	case Bootstrapped:
		return "bootstrapped"
	case Partitioned:
		return "partitioned"
	case CoresComputed:
		return "cores_computed"
	default:
		return "unknown"
	}
}
