package provision

import "time"

// Status is the final state of a completed operation.
type Status string

// StatusCompleted is the only status an Outcome ever carries: outcomes are
// created at the end of a successful orchestration and never mutated.
const StatusCompleted Status = "Completed"

// Outcome is the pipeline-friendly summary returned when the caller opts in.
type Outcome struct {
	DomainName   string
	NetBIOSName  string
	DomainMode   FunctionalLevel
	ForestMode   FunctionalLevel
	DatabasePath string
	LogPath      string
	SysvolPath   string
	InstallDNS   bool
	Status       Status
	CompletedAt  time.Time
}

func newOutcome(req *Request, completedAt time.Time) *Outcome {
	return &Outcome{
		DomainName:   req.DomainName,
		NetBIOSName:  req.NetBIOSName,
		DomainMode:   req.DomainMode,
		ForestMode:   req.ForestMode,
		DatabasePath: req.DatabasePath,
		LogPath:      req.LogPath,
		SysvolPath:   req.SysvolPath,
		InstallDNS:   req.InstallDNS,
		Status:       StatusCompleted,
		CompletedAt:  completedAt,
	}
}
