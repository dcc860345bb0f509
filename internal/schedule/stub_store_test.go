package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// stubStore is a test-only in-memory EventStore. It records every call so
// tests can assert on call ordering and refresh behavior, and can be told to
// fail specific operations.
type stubStore struct {
	mu      sync.Mutex
	records map[string]models.EventWireRecord
	order   []string // ids in insertion order
	calls   []string // "fetch", "create:<id>", "update:<id>", "delete:<id>"
	patches map[string][]map[string]any
	nextID  int

	failCreate bool
	failUpdate map[string]bool
	failDelete map[string]bool

	// When set, CreateEvent signals createEntered and blocks until
	// createRelease is closed. Lets tests observe mid-mutation state.
	createEntered chan struct{}
	createRelease chan struct{}
}

func newStubStore(events ...models.Event) *stubStore {
	s := &stubStore{
		records:    make(map[string]models.EventWireRecord),
		patches:    make(map[string][]map[string]any),
		failUpdate: make(map[string]bool),
		failDelete: make(map[string]bool),
	}
	for _, ev := range events {
		s.records[ev.ID] = ev.ToWire()
		s.order = append(s.order, ev.ID)
	}
	return s
}

func (s *stubStore) GetEventsByGroupID(ctx context.Context, groupID string) ([]models.EventWireRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "fetch")
	var out []models.EventWireRecord
	for _, id := range s.order {
		if rec, ok := s.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubStore) CreateEvent(ctx context.Context, record models.EventWireRecord) (models.EventWireRecord, error) {
	if s.createEntered != nil {
		s.createEntered <- struct{}{}
		<-s.createRelease
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return models.EventWireRecord{}, fmt.Errorf("create refused")
	}
	if record.ID == "" {
		s.nextID++
		record.ID = fmt.Sprintf("ev-%d", s.nextID)
	}
	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	s.calls = append(s.calls, "create:"+record.ID)
	return record, nil
}

func (s *stubStore) UpdateEvent(ctx context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate[id] {
		return fmt.Errorf("update refused for %s", id)
	}
	record, ok := s.records[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	// Apply the patch through the wire JSON names.
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return err
	}
	for k, v := range patch {
		asMap[k] = v
	}
	merged, err := json.Marshal(asMap)
	if err != nil {
		return err
	}
	var updated models.EventWireRecord
	if err := json.Unmarshal(merged, &updated); err != nil {
		return err
	}
	s.records[id] = updated
	s.patches[id] = append(s.patches[id], patch)
	s.calls = append(s.calls, "update:"+id)
	return nil
}

func (s *stubStore) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete[id] {
		return fmt.Errorf("delete refused for %s", id)
	}
	delete(s.records, id)
	s.calls = append(s.calls, "delete:"+id)
	return nil
}

func (s *stubStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

func (s *stubStore) record(id string) (models.EventWireRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

func (s *stubStore) countDeletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if len(c) > 7 && c[:7] == "delete:" {
			n++
		}
	}
	return n
}
