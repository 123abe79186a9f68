package importer

import (
	"fmt"
	"time"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// Combine merges two exports of the same account: base, a full export whose
// timestamps only carry minute precision, and precise, an export of the same
// trades with full second precision and fresh import timestamps. Each precise
// record is matched to a base record by identity key after truncating its
// seconds, and the base record takes the precise time and import timestamp.
// A precise record with no base counterpart fails the merge.
func Combine(base, precise []model.Trade) ([]model.Trade, error) {
	index := make(map[model.TradeKey][]int, len(base))
	for i := range base {
		key := base[i].Key()
		index[key] = append(index[key], i)
	}

	for _, pt := range precise {
		truncated := pt
		truncated.Time = pt.Time.Truncate(time.Minute)

		key := truncated.Key()
		candidates := index[key]
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnmatchedTrade, pt)
		}
		i := candidates[0]
		index[key] = candidates[1:]

		base[i].Time = pt.Time
		base[i].ImportedTime = pt.ImportedTime
	}

	model.SortTradesByTime(base)
	return base, nil
}
