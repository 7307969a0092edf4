package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Input / fixture loading
	FixInfo          Code = 1000
	FixUnreadable    Code = 1001
	FixBadSyntax     Code = 1002
	FixBadNode       Code = 1003
	FixBadSpan       Code = 1004
	FixMissingSource Code = 1005

	// MIR scope tree
	MirInfo        Code = 3000
	MirBadScope    Code = 3001
	MirBadLocal    Code = 3002
	MirMissingData Code = 3003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Debug info emission
	DbgInfo               Code = 7000
	DbgScopeInconsistency Code = 7001
	DbgMissingMir         Code = 7002
)

func (c Code) String() string {
	return fmt.Sprintf("D%04d", uint16(c))
}
