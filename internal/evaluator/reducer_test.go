package evaluator

import (
	"reflect"
	"testing"
)

func TestReduce(t *testing.T) {
	phrase := "phrase:hell\x1fo"
	exact := "exact:world"
	records := []MatchRecord{
		{DocID: "doc-5", Position: 69, OperandID: phrase},
		{DocID: "doc-5", Position: 70, OperandID: phrase},
		{DocID: "doc-6", Position: 12, OperandID: exact},
		{DocID: "doc-5", Position: 3, OperandID: exact},
	}

	t.Run("keeps surviving documents", func(t *testing.T) {
		final := DocumentSet{"doc-5": {}}
		pruned, counts := Reduce(final, records)

		if len(pruned) != 3 {
			t.Fatalf("got %d records, want 3", len(pruned))
		}
		for _, rec := range pruned {
			if rec.DocID != "doc-5" {
				t.Errorf("record for %s survived", rec.DocID)
			}
		}
		want := map[string]int{phrase: 2, exact: 1}
		if !reflect.DeepEqual(counts, want) {
			t.Errorf("counts = %v, want %v", counts, want)
		}
	})

	t.Run("drops pruned documents", func(t *testing.T) {
		final := DocumentSet{"doc-6": {}}
		pruned, counts := Reduce(final, records)

		if len(pruned) != 1 {
			t.Fatalf("got %d records, want 1", len(pruned))
		}
		if counts[phrase] != 0 {
			t.Errorf("phrase matches survived for a pruned document")
		}
		if counts[exact] != 1 {
			t.Errorf("counts[exact] = %d, want 1", counts[exact])
		}
	})

	t.Run("empty final set", func(t *testing.T) {
		pruned, counts := Reduce(DocumentSet{}, records)
		if len(pruned) != 0 || len(counts) != 0 {
			t.Errorf("empty set kept %d records, %d counts", len(pruned), len(counts))
		}
	})
}
