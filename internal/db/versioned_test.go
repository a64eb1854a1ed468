package db

import (
	"math/rand"
	"testing"
)

func TestCurrentViewKeepsNewestPerKey(t *testing.T) {
	records := []IngredientVersion{
		{IngredientID: "a", Name: "Flour", Timestamp: 100},
		{IngredientID: "a", Name: "Bread Flour", Timestamp: 200},
		{IngredientID: "b", Name: "Sugar", Timestamp: 150},
	}

	current := CurrentView(records)
	if len(current) != 2 {
		t.Fatalf("expected 2 current records, got %d", len(current))
	}
	if current[0].Name != "Bread Flour" || current[1].Name != "Sugar" {
		t.Fatalf("unexpected current view: %+v", current)
	}
}

func TestCurrentViewEmptyAndSingle(t *testing.T) {
	if got := CurrentView([]IngredientVersion{}); len(got) != 0 {
		t.Fatalf("expected empty view, got %+v", got)
	}

	one := []IngredientVersion{{IngredientID: "a", Name: "Salt", Timestamp: 1}}
	got := CurrentView(one)
	if len(got) != 1 || got[0].Name != "Salt" {
		t.Fatalf("expected the single record back, got %+v", got)
	}
}

func TestCurrentViewTieKeepsEarlierInput(t *testing.T) {
	records := []IngredientVersion{
		{IngredientID: "a", Name: "first", Timestamp: 100},
		{IngredientID: "a", Name: "second", Timestamp: 100},
	}

	current := CurrentView(records)
	if len(current) != 1 {
		t.Fatalf("expected 1 record, got %d", len(current))
	}
	if current[0].Name != "first" {
		t.Fatalf("tie should keep the earlier input record, got %q", current[0].Name)
	}
}

func TestCurrentViewDoesNotMutateInput(t *testing.T) {
	records := []IngredientVersion{
		{IngredientID: "b", Name: "Sugar", Timestamp: 2},
		{IngredientID: "a", Name: "Flour", Timestamp: 1},
		{IngredientID: "a", Name: "Flour v2", Timestamp: 3},
	}

	_ = CurrentView(records)
	if records[0].Name != "Sugar" || records[1].Name != "Flour" || records[2].Name != "Flour v2" {
		t.Fatalf("input slice was reordered: %+v", records)
	}
}

func TestCurrentViewIdempotentUnderReordering(t *testing.T) {
	records := []PriceRecord{
		{ID: "1", IngredientID: "a", Price: "2.50", Timestamp: 10},
		{ID: "2", IngredientID: "a", Price: "3.00", Timestamp: 20},
		{ID: "3", IngredientID: "b", Price: "1.00", Timestamp: 15},
		{ID: "4", IngredientID: "c", Price: "9.99", Timestamp: 5},
	}

	want := CurrentView(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]PriceRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := CurrentView(shuffled)
		if len(got) != len(want) {
			t.Fatalf("shuffle %d: expected %d records, got %d", i, len(want), len(got))
		}
		for j := range got {
			if got[j].ID != want[j].ID {
				t.Fatalf("shuffle %d: expected %s at position %d, got %s", i, want[j].ID, j, got[j].ID)
			}
		}
	}

	again := CurrentView(want)
	if len(again) != len(want) {
		t.Fatalf("current view is not idempotent: %d vs %d", len(again), len(want))
	}
	for i := range again {
		if again[i].ID != want[i].ID {
			t.Fatalf("current view changed under repeated application at %d", i)
		}
	}
}
