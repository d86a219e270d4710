package app

import (
	"time"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
)

// winnerCandidate is the running winner carried through SelectEndpoint's
// iteration. The synthetic start value ({-inf block, +inf latency}, index
// -1) guarantees the first non-failed candidate always replaces it.
type winnerCandidate struct {
	block   int64
	latency time.Duration
	index   int
}

func syntheticWinner() winnerCandidate {
	return winnerCandidate{
		block:   minInt64,
		latency: maxDuration,
		index:   -1,
	}
}

const minInt64 = -1 << 63
const maxDuration = time.Duration(1<<63 - 1)

// SelectEndpoint is the pure Selection Policy (spec.md §4.4): given an
// ordered endpoint snapshot list and a blocks-behind tolerance, it returns
// the index of the winning endpoint, or -1 if none qualifies.
//
// Earlier list position is an implicit tie-breaker: the replace rules use
// strict inequalities, so the incumbent wins ties. A failed candidate is
// never selected.
func SelectEndpoint(servers []domain.Snapshot, allowedBlocksBehind int64) int {
	winner := syntheticWinner()

	for i, c := range servers {
		if c.Failed {
			continue
		}
		switch {
		case c.LastBlock-allowedBlocksBehind > winner.block:
			winner = winnerCandidate{block: c.LastBlock, latency: c.LastResponseTime, index: i}
		case c.LastBlock == winner.block && c.LastResponseTime < winner.latency:
			winner = winnerCandidate{block: c.LastBlock, latency: c.LastResponseTime, index: i}
		}
	}

	return winner.index
}
