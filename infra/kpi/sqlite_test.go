package kpi

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vrogeon/repartkey/core/stats"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.Query("", "P1"); !errors.Is(err, stats.ErrNoRun) {
		t.Fatalf("expected ErrNoRun, got %v", err)
	}

	recs := []stats.Record{
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C2", Month: 1, Label: "Janvier", ConsumptionKWh: 5},
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 2, Label: "Février", ConsumptionKWh: 6},
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 1, Label: "Janvier", ConsumptionKWh: 7},
		{RunID: "r2", ProducerID: "P1", ConsumerID: "C1", Month: 1, Label: "Janvier", ConsumptionKWh: 9},
	}
	for _, r := range recs {
		if err := s.Add(r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, err := s.Query("r1", "P1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].ConsumerID != "C1" || got[0].Month != 1 || got[1].ConsumerID != "C2" || got[2].Month != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}

	latest, err := s.Query("", "P1")
	if err != nil {
		t.Fatalf("query latest: %v", err)
	}
	if len(latest) != 1 || latest[0].RunID != "r2" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	upd := recs[3]
	upd.AutoProductionRate = 55.5
	if err := s.Add(upd); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	latest, _ = s.Query("", "P1")
	if len(latest) != 1 || latest[0].AutoProductionRate != 55.5 {
		t.Fatalf("upsert not applied: %+v", latest)
	}

	none, err := s.Query("r1", "P9")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no records, got %v %v", none, err)
	}
}

func TestSQLiteStoreRepeatedMonth(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()

	recs := []stats.Record{
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 1, Row: 0, Label: "31.01 23:45", ConsumptionKWh: 5},
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 2, Row: 1, Label: "01.02 00:00", ConsumptionKWh: 3},
		{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 1, Row: 2, Label: "15.01 00:00", ConsumptionKWh: 2},
	}
	for _, r := range recs {
		if err := s.Add(r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	got, err := s.Query("r1", "P1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %+v", got)
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], recs[i])
		}
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Add(stats.Record{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Query("", "P1")
	if err != nil || len(got) != 1 || got[0].Month != 3 {
		t.Fatalf("unexpected %+v %v", got, err)
	}
}
