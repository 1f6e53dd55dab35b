package stats

import (
	"errors"
	"math"
	"testing"

	"ShelfWatch/internal/domain/models"
)

func TestComputeAverages(t *testing.T) {
	items := []models.Item{
		{ID: 1, Name: "a", Price: "10"},
		{ID: 2, Name: "b", Price: "20"},
		{ID: 3, Name: "c", Price: "30"},
	}
	st, err := Compute(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 3 {
		t.Fatalf("expected total 3, got %d", st.Total)
	}
	if math.Abs(st.AveragePrice-20) > 1e-9 {
		t.Fatalf("expected average 20, got %v", st.AveragePrice)
	}
}

func TestComputeEmpty(t *testing.T) {
	st, err := Compute(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 0 || st.AveragePrice != 0 {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}

func TestComputeFractionalAverage(t *testing.T) {
	items := []models.Item{
		{ID: 1, Price: "0.1"},
		{ID: 2, Price: "0.2"},
	}
	st, err := Compute(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(st.AveragePrice-0.15) > 1e-9 {
		t.Fatalf("expected average 0.15, got %v", st.AveragePrice)
	}
}

func TestComputeBadPrice(t *testing.T) {
	items := []models.Item{
		{ID: 1, Price: "10"},
		{ID: 2, Price: "not-a-number"},
	}
	_, err := Compute(items)
	if err == nil {
		t.Fatalf("expected error")
	}
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("expected DataError, got %T", err)
	}
	if de.ItemID != 2 {
		t.Fatalf("expected item 2, got %d", de.ItemID)
	}
}

func TestComputeMissingPrice(t *testing.T) {
	items := []models.Item{{ID: 7}}
	_, err := Compute(items)
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("expected DataError, got %v", err)
	}
}
