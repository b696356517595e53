package aggregate

import (
	"climate-feed/internal/models"
)

// Assembler merges independently computed per-family aggregation
// outputs into one output record per (station, period date, level)
// key. Merges are field-level: a later merge for the same key
// overwrites same-named fields and leaves fields from other families
// intact. Records whose every field is absent are dropped on output.
//
// The assembler is transient, built and discarded within one pipeline
// invocation; it is not safe for concurrent use, matching the
// single-goroutine-per-station processing model.
type Assembler struct {
	order  []models.PeriodKey
	fields map[models.PeriodKey]models.Fields
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{fields: make(map[models.PeriodKey]models.Fields)}
}

// Merge folds aggregated records into the assembler.
func (a *Assembler) Merge(records ...models.AggregatedRecord) {
	for _, rec := range records {
		key := rec.Key()
		existing, ok := a.fields[key]
		if !ok {
			existing = models.Fields{}
			a.fields[key] = existing
			a.order = append(a.order, key)
		}
		existing.Merge(rec.Fields)
	}
}

// Records returns the assembled output records in first-seen key
// order. Records carrying no usable value are dropped rather than
// emitted.
func (a *Assembler) Records() []models.AggregatedRecord {
	out := make([]models.AggregatedRecord, 0, len(a.order))
	for _, key := range a.order {
		fields := a.fields[key]
		if fields.AllAbsent() {
			continue
		}
		out = append(out, models.AggregatedRecord{
			StationID:  key.StationID,
			PeriodDate: key.Date,
			Level:      key.Level,
			Fields:     fields,
		})
	}
	return out
}

// Len reports the number of distinct keys seen so far, dropped or not.
func (a *Assembler) Len() int {
	return len(a.order)
}
