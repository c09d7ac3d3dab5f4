package positions

import (
	"math"
	"runtime"
	"sort"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/shirou/gopsutil/cpu"
)

// skipReason explains why a contract cannot be priced, or returns "".
func skipReason(snapshot models.MarketSnapshot, c models.OptionContract) string {
	switch {
	case math.IsNaN(c.ImpliedVol) || c.ImpliedVol <= 0:
		return "missing implied volatility"
	case c.Strike <= 0:
		return "non-positive strike"
	case c.YearsToExpiry <= 0:
		return "expired"
	case snapshot.Spot <= 0:
		return "non-positive spot"
	}
	return ""
}

func workerCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func splitByType(records []GreekRecord) (calls, puts []GreekRecord) {
	for _, r := range records {
		if r.Type == models.Call {
			calls = append(calls, r)
		} else {
			puts = append(puts, r)
		}
	}
	return calls, puts
}

func sortByStrikeThenDTE(records []GreekRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Strike != records[j].Strike {
			return records[i].Strike < records[j].Strike
		}
		return records[i].DTE < records[j].DTE
	})
}

func sortByDTEThenStrike(records []GreekRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DTE != records[j].DTE {
			return records[i].DTE < records[j].DTE
		}
		return records[i].Strike < records[j].Strike
	})
}
