package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// MemoryStore keeps every collection in process memory, in insertion order.
// It backs the service tests and the "memory" database driver.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]Record
	failures map[string]error
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]Record),
		failures: make(map[string]error),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FailNext makes the next op ("get", "find", "insert", "update", "upsert",
// "delete", "call") on collection return err. For "call" the collection is
// the procedure name.
func (m *MemoryStore) FailNext(op, collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+collection] = err
}

func (m *MemoryStore) takeFailure(op, collection string) error {
	key := op + ":" + collection
	if err, ok := m.failures[key]; ok {
		delete(m.failures, key)
		return err
	}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("get", collection); err != nil {
		return nil, err
	}
	if _, err := SchemaFor(collection); err != nil {
		return nil, err
	}
	for _, row := range m.tables[collection] {
		if row.String("id") == id {
			return row.Clone(), nil
		}
	}
	return nil, nil
}

// Find implements Store.
func (m *MemoryStore) Find(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("find", collection); err != nil {
		return nil, err
	}
	if err := checkFilter(collection, filter); err != nil {
		return nil, err
	}
	out := []Record{}
	for _, row := range m.tables[collection] {
		if matches(row, filter) {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

// Insert implements Store.
func (m *MemoryStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("insert", collection); err != nil {
		return nil, err
	}
	return m.insertLocked(collection, rec)
}

func (m *MemoryStore) insertLocked(collection string, rec Record) (Record, error) {
	schema, clean, err := prepareWrite(collection, rec)
	if err != nil {
		return nil, err
	}

	row := make(Record, len(schema.Columns))
	for _, col := range schema.Columns {
		row[col] = nil
	}
	for k, v := range clean {
		row[k] = v
	}
	if row.String("id") == "" {
		row["id"] = uuid.New().String()
	}
	now := m.now()
	if schema.Has("created_at") && row["created_at"] == nil {
		row["created_at"] = now
	}
	if schema.Updated {
		row["updated_at"] = now
	}

	m.tables[collection] = append(m.tables[collection], row)
	return row.Clone(), nil
}

// Update implements Store.
func (m *MemoryStore) Update(ctx context.Context, collection string, filter Filter, partial Record) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("update", collection); err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return nil, ErrEmptyFilter
	}
	if err := checkFilter(collection, filter); err != nil {
		return nil, err
	}
	schema, clean, err := prepareWrite(collection, partial)
	if err != nil {
		return nil, err
	}
	delete(clean, "id")

	out := []Record{}
	for _, row := range m.tables[collection] {
		if !matches(row, filter) {
			continue
		}
		m.applyLocked(schema, row, clean)
		out = append(out, row.Clone())
	}
	return out, nil
}

// Upsert implements Store.
func (m *MemoryStore) Upsert(ctx context.Context, collection string, rec Record, conflictKeys ...string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("upsert", collection); err != nil {
		return nil, err
	}
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	schema, clean, err := prepareWrite(collection, rec)
	if err != nil {
		return nil, err
	}

	key := Filter{}
	for _, k := range conflictKeys {
		v, ok := clean[k]
		if !ok {
			// Nothing to conflict on, so this is a plain insert.
			return m.insertLocked(collection, clean)
		}
		key[k] = v
	}

	for _, row := range m.tables[collection] {
		if matches(row, key) {
			update := clean.Clone()
			delete(update, "id")
			delete(update, "created_at")
			m.applyLocked(schema, row, update)
			return row.Clone(), nil
		}
	}
	return m.insertLocked(collection, clean)
}

func (m *MemoryStore) applyLocked(schema *Schema, row, partial Record) {
	for k, v := range partial {
		row[k] = v
	}
	if schema.Updated {
		row["updated_at"] = m.now()
	}
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, collection string, filter Filter) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("delete", collection); err != nil {
		return false, err
	}
	if len(filter) == 0 {
		return false, ErrEmptyFilter
	}
	if err := checkFilter(collection, filter); err != nil {
		return false, err
	}
	schema, _ := SchemaFor(collection)
	if schema.ReadOnly {
		return false, ErrReadOnly
	}

	rows := m.tables[collection]
	kept := rows[:0]
	removed := false
	for _, row := range rows {
		if matches(row, filter) {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	m.tables[collection] = kept
	return removed, nil
}

// CallProcedure implements Store. Only mark_upload_complete is known.
func (m *MemoryStore) CallProcedure(ctx context.Context, name string, args Record) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure("call", name); err != nil {
		return nil, err
	}
	if name != ProcMarkUploadComplete {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcedure, name)
	}

	schema, _ := SchemaFor(ApplicationDocs)
	filter := Filter{"application_id": args.String("app_id"), "document_type": args.String("doc_type")}
	updated := false
	for _, row := range m.tables[ApplicationDocs] {
		if matches(row, filter) {
			m.applyLocked(schema, row, Record{"upload_status": "completed"})
			updated = true
		}
	}
	return updated, nil
}

func prepareWrite(collection string, rec Record) (*Schema, Record, error) {
	schema, err := SchemaFor(collection)
	if err != nil {
		return nil, nil, err
	}
	if schema.ReadOnly {
		return nil, nil, ErrReadOnly
	}
	clean, dropped, _ := Sanitize(collection, rec)
	if len(dropped) > 0 {
		logger.Debug().Str("collection", collection).Strs("dropped", dropped).Msg("Dropping unknown fields")
	}
	for k, v := range clean {
		clean[k] = normalize(v)
	}
	return schema, clean, nil
}

func checkFilter(collection string, filter Filter) error {
	schema, err := SchemaFor(collection)
	if err != nil {
		return err
	}
	for k := range filter {
		if !schema.Has(k) {
			return fmt.Errorf("unknown column %q in %s filter", k, collection)
		}
	}
	return nil
}

func matches(row Record, filter Filter) bool {
	for k, want := range filter {
		got := row[k]
		want = normalize(want)
		if want == nil || got == nil {
			if want != got {
				return false
			}
			continue
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// normalize dereferences pointers so stored rows hold plain values or nil.
func normalize(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *bool:
		if p == nil {
			return nil
		}
		return *p
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return p.UTC()
	case time.Time:
		return p.UTC()
	case *decimal.Decimal:
		if p == nil {
			return nil
		}
		return *p
	case []string:
		// An empty list stays empty; only a nil slice becomes NULL
		if p == nil {
			return nil
		}
		out := make([]string, len(p))
		copy(out, p)
		return out
	default:
		return v
	}
}
