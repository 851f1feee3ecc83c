package track

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pinfield/server/internal/field"
)

func TestPartitionCoversTrackWithoutGaps(t *testing.T) {
	region := field.NewRegion(120, 240, 0.5)
	zones, err := Partition(region, PartitionConfig{ZoneCount: 5, ScoringZoneCount: 2}, nil)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	if len(zones) != 5 {
		t.Fatalf("got %d zones, want 5", len(zones))
	}
	if zones[0].SpanStart != region.MinZ {
		t.Fatalf("first span starts at %f, want %f", zones[0].SpanStart, region.MinZ)
	}
	if zones[len(zones)-1].SpanEnd != region.MaxZ {
		t.Fatalf("last span ends at %f, want %f", zones[len(zones)-1].SpanEnd, region.MaxZ)
	}
	for i := 1; i < len(zones); i++ {
		if zones[i].SpanStart != zones[i-1].SpanEnd {
			t.Fatalf("zones %d/%d leave a gap: %f != %f", i-1, i, zones[i-1].SpanEnd, zones[i].SpanStart)
		}
	}

	scoring := 0
	for _, zone := range zones {
		if zone.Scoring {
			scoring++
		}
		if zone.Locked {
			t.Fatalf("zone %d created locked", zone.Index)
		}
	}
	if scoring != 2 {
		t.Fatalf("got %d scoring zones, want 2", scoring)
	}
}

func TestPartitionUsesLongAxis(t *testing.T) {
	wide := field.Region{MinX: 0, MinZ: 0, MaxX: 300, MaxZ: 100}
	zones, err := Partition(wide, PartitionConfig{ZoneCount: 3}, nil)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	if zones[0].SpanEnd != 100 || zones[2].SpanEnd != 300 {
		t.Fatalf("wide region did not partition along X: %+v", zones)
	}
}

func TestPartitionFirstNSelection(t *testing.T) {
	region := field.NewRegion(100, 200, 0)
	zones, err := Partition(region, PartitionConfig{ZoneCount: 4, ScoringZoneCount: 2, Selection: SelectFirstN}, nil)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	want := []int{0, 1}
	if diff := cmp.Diff(want, ScoringIndices(zones)); diff != "" {
		t.Fatalf("scoring indices mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionRandomSelection(t *testing.T) {
	region := field.NewRegion(100, 200, 0)
	cfg := PartitionConfig{ZoneCount: 6, ScoringZoneCount: 3, Selection: SelectRandom}

	zones, err := Partition(region, cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	if got := len(ScoringIndices(zones)); got != 3 {
		t.Fatalf("got %d scoring zones, want 3", got)
	}

	again, err := Partition(region, cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	if diff := cmp.Diff(ScoringIndices(zones), ScoringIndices(again)); diff != "" {
		t.Fatalf("same rng seed produced different selections (-first +second):\n%s", diff)
	}

	if _, err := Partition(region, cfg, nil); err == nil {
		t.Fatalf("random selection without rng did not fail")
	}
}

func TestPartitionScoringIndicesOverride(t *testing.T) {
	region := field.NewRegion(100, 200, 0)
	zones, err := Partition(region, PartitionConfig{ZoneCount: 5, ScoringZoneCount: 1, ScoringIndices: []int{1, 4}}, nil)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	want := []int{1, 4}
	if diff := cmp.Diff(want, ScoringIndices(zones)); diff != "" {
		t.Fatalf("scoring indices mismatch (-want +got):\n%s", diff)
	}

	if _, err := Partition(region, PartitionConfig{ZoneCount: 3, ScoringIndices: []int{3}}, nil); err == nil {
		t.Fatalf("out-of-range override did not fail")
	}
}

func TestPartitionClampsScoringCount(t *testing.T) {
	region := field.NewRegion(100, 200, 0)
	zones, err := Partition(region, PartitionConfig{ZoneCount: 3, ScoringZoneCount: 9}, nil)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	if got := len(ScoringIndices(zones)); got != 3 {
		t.Fatalf("got %d scoring zones, want all 3", got)
	}
}

func TestPartitionRejectsZeroZones(t *testing.T) {
	region := field.NewRegion(100, 200, 0)
	if _, err := Partition(region, PartitionConfig{ZoneCount: 0}, nil); !errors.Is(err, ErrNoZones) {
		t.Fatalf("error = %v, want ErrNoZones", err)
	}
}
