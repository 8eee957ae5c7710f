package constant

import "fmt"

type ProcessingStatus string

const (
	ProcessingStatusCompleted ProcessingStatus = "COMPLETED"
	ProcessingStatusFailed    ProcessingStatus = "FAILED"
)

func (s ProcessingStatus) String() string {
	return string(s)
}

// PackagingMode selects the adaptive-streaming container layout produced by
// one run. The modes are mutually exclusive.
type PackagingMode string

const (
	PackagingHLS  PackagingMode = "hls"
	PackagingDASH PackagingMode = "dash"
)

func ParsePackagingMode(value string) (PackagingMode, error) {
	switch PackagingMode(value) {
	case PackagingHLS:
		return PackagingHLS, nil
	case PackagingDASH:
		return PackagingDASH, nil
	}
	return "", fmt.Errorf("unknown packaging mode %q", value)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

// Process exit codes. Orchestration systems branch on these, keep them stable.
const (
	ExitOK          = 0
	ExitUnexpected  = 1
	ExitInit        = 2
	ExitTranscoding = 3
)
