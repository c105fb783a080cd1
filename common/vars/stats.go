package vars

import (
	"sync/atomic"

	"github.com/walshy828/dodgeball-sale/model"
)

// statsPtr holds the latest sales snapshot. Readers never block; the stats
// cron swaps the whole struct in atomically.
var statsPtr atomic.Pointer[model.StatsResponse]

func GetStats() model.StatsResponse {
	ptr := statsPtr.Load()
	if ptr == nil {
		return model.StatsResponse{}
	}
	return *ptr
}

func SetStats(stats model.StatsResponse) {
	statsPtr.Store(&stats)
}
