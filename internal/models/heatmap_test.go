package models

import (
	"reflect"
	"testing"
)

func TestHeatmapDay_SourceNames(t *testing.T) {
	day := HeatmapDay{
		Date:       "2026-04-01",
		Count:      2,
		TopSources: []Source{SourceContentPublication, SourceCodeCommit},
	}

	want := []string{"content-publication", "code-commit"}
	if got := day.SourceNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("SourceNames() = %v, want %v", got, want)
	}

	if got := (HeatmapDay{}).SourceNames(); len(got) != 0 {
		t.Errorf("SourceNames() on empty day = %v, want empty", got)
	}
}
