package services

import (
	"github.com/ytakahashi/agenda-api/internal/datetime"
)

// Patch carries the raw text values of an update request keyed by field name.
// Empty values mean "leave unchanged".
type Patch map[string]string

// Merge builds the update set for a partial update. Only fields listed in
// allowed with a non-empty value are kept. The date field is validated with
// strict parsing and stored as a time.Time. Nothing is written here; callers
// write the returned set only when err is nil.
func Merge(patch Patch, allowed []string, dateField string, norm *datetime.Normalizer) (map[string]any, error) {
	updates := make(map[string]any)
	for _, field := range allowed {
		value := patch[field]
		if value == "" {
			continue
		}
		if field == dateField {
			t, err := norm.Parse(value)
			if err != nil {
				return nil, err
			}
			updates[field] = t
			continue
		}
		updates[field] = value
	}

	if len(updates) == 0 {
		return nil, ErrEmptyUpdate
	}
	return updates, nil
}
