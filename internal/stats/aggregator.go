package stats

import (
	"fmt"

	"ShelfWatch/internal/domain/models"
)

// DataError marks a record set that cannot be aggregated, typically a
// non-numeric price in the backing file.
type DataError struct {
	ItemID int64
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("item %d: unusable price: %v", e.ItemID, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Compute aggregates the whole record set. Pure, no I/O.
// An empty set yields zero stats rather than dividing by zero.
func Compute(items []models.Item) (models.Stats, error) {
	if len(items) == 0 {
		return models.Stats{}, nil
	}

	var sum float64
	for _, it := range items {
		if it.Price == "" {
			return models.Stats{}, &DataError{ItemID: it.ID, Err: fmt.Errorf("missing price")}
		}
		p, err := it.Price.Float64()
		if err != nil {
			return models.Stats{}, &DataError{ItemID: it.ID, Err: err}
		}
		sum += p
	}

	return models.Stats{
		Total:        len(items),
		AveragePrice: sum / float64(len(items)),
	}, nil
}
