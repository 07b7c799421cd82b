package domain

import "time"

const DatabaseStatusConnected = "connected"

type Stats struct {
	TotalRecords    int64
	LatestTimestamp *time.Time
	OldestTimestamp *time.Time
	DatabaseStatus  string
}
