package stats

import (
	"sort"
	"sync"
)

type recordKey struct {
	run, producer, consumer string
	row, month              int
}

// MemoryStore keeps records in memory for tests or one-shot runs.
type MemoryStore struct {
	mu   sync.Mutex
	data map[recordKey]Record
	runs []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[recordKey]Record{}}
}

// Add implements Store.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) == 0 || s.runs[len(s.runs)-1] != r.RunID {
		s.runs = append(s.runs, r.RunID)
	}
	s.data[recordKey{r.RunID, r.ProducerID, r.ConsumerID, r.Row, r.Month}] = r
	return nil
}

// Query implements Store.
func (s *MemoryStore) Query(runID, producerID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if runID == "" {
		if len(s.runs) == 0 {
			return nil, ErrNoRun
		}
		runID = s.runs[len(s.runs)-1]
	}
	var res []Record
	for k, r := range s.data {
		if k.run == runID && k.producer == producerID {
			res = append(res, r)
		}
	}
	SortRecords(res)
	return res, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// SortRecords orders records by row, month then consumer.
func SortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Row != recs[j].Row {
			return recs[i].Row < recs[j].Row
		}
		if recs[i].Month != recs[j].Month {
			return recs[i].Month < recs[j].Month
		}
		return recs[i].ConsumerID < recs[j].ConsumerID
	})
}
