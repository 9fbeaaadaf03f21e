package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// procedureArgs lists the server-side functions the store may call and
// their named parameters.
var procedureArgs = map[string][]string{
	ProcMarkUploadComplete: {"app_id", "doc_type"},
}

// PostgresStore implements Store on a pgx connection pool. Rows are read back
// with to_jsonb so every collection shares one decode path.
type PostgresStore struct {
	db  *db.PostgresDB
	now func() time.Time
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Record, error) {
	rows, err := s.Find(ctx, collection, Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Find implements Store.
func (s *PostgresStore) Find(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	query, args, err := buildSelect(collection, filter)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, query, args)
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	schema, clean, err := s.prepare(collection, rec)
	if err != nil {
		return nil, err
	}
	query, args := buildInsert(collection, schema, clean, nil)
	return s.queryOne(ctx, query, args)
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, collection string, filter Filter, partial Record) ([]Record, error) {
	schema, clean, err := s.prepare(collection, partial)
	if err != nil {
		return nil, err
	}
	delete(clean, "id")
	delete(clean, "created_at")
	if !schema.Updated {
		delete(clean, "updated_at")
	}
	query, args, err := buildUpdate(collection, filter, clean)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, query, args)
}

// Upsert implements Store.
func (s *PostgresStore) Upsert(ctx context.Context, collection string, rec Record, conflictKeys ...string) (Record, error) {
	schema, clean, err := s.prepare(collection, rec)
	if err != nil {
		return nil, err
	}
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	query, args := buildInsert(collection, schema, clean, conflictKeys)
	return s.queryOne(ctx, query, args)
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, collection string, filter Filter) (bool, error) {
	query, args, err := buildDelete(collection, filter)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting from %s: %w", collection, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CallProcedure implements Store.
func (s *PostgresStore) CallProcedure(ctx context.Context, name string, args Record) (interface{}, error) {
	query, params, err := buildCall(name, args)
	if err != nil {
		return nil, err
	}
	var raw []byte
	if err := s.db.Pool.QueryRow(ctx, query, params...).Scan(&raw); err != nil {
		return nil, fmt.Errorf("error calling %s: %w", name, err)
	}
	var out interface{}
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// prepare sanitizes rec and fills in generated columns.
func (s *PostgresStore) prepare(collection string, rec Record) (*Schema, Record, error) {
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
	now := s.now()
	if schema.Has("id") && clean.String("id") == "" {
		clean["id"] = uuid.New().String()
	}
	if schema.Has("created_at") && clean["created_at"] == nil {
		clean["created_at"] = now
	}
	if schema.Updated {
		clean["updated_at"] = now
	}
	return schema, clean, nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, args []interface{}) (Record, error) {
	var raw []byte
	if err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return nil, fmt.Errorf("error executing write: %w", err)
	}
	rec := Record{}
	if err := decodeJSON(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) queryRecords(ctx context.Context, query string, args []interface{}) ([]Record, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		rec := Record{}
		if err := decodeJSON(raw, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func decodeJSON(raw []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("error decoding row: %w", err)
	}
	return nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedKeys[M ~map[string]interface{}](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// whereClause renders filter against alias t, numbering params from start.
func whereClause(collection string, filter Filter, start int) (string, []interface{}, error) {
	if err := checkFilter(collection, filter); err != nil {
		return "", nil, err
	}
	if len(filter) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(filter))
	args := make([]interface{}, 0, len(filter))
	for _, k := range sortedKeys(filter) {
		v := normalize(filter[k])
		if v == nil {
			parts = append(parts, fmt.Sprintf("t.%s IS NULL", ident(k)))
			continue
		}
		args = append(args, v)
		parts = append(parts, fmt.Sprintf("t.%s = $%d", ident(k), start+len(args)))
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func buildSelect(collection string, filter Filter) (string, []interface{}, error) {
	schema, err := SchemaFor(collection)
	if err != nil {
		return "", nil, err
	}
	where, args, err := whereClause(collection, filter, 0)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf("SELECT to_jsonb(t) FROM %s t%s", ident(collection), where)
	if schema.Has("created_at") {
		query += " ORDER BY t." + ident("created_at") + " ASC"
	}
	return query, args, nil
}

// buildInsert renders an INSERT, or an upsert when conflictKeys is non-empty.
// On conflict only the supplied non-key columns are overwritten.
func buildInsert(collection string, schema *Schema, rec Record, conflictKeys []string) (string, []interface{}) {
	cols := sortedKeys(rec)
	names := make([]string, len(cols))
	holders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		names[i] = ident(c)
		holders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = normalize(rec[c])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s AS t (%s) VALUES (%s)",
		ident(collection), strings.Join(names, ", "), strings.Join(holders, ", "))

	if len(conflictKeys) > 0 {
		keys := make([]string, len(conflictKeys))
		skip := map[string]bool{"id": true, "created_at": true}
		for i, k := range conflictKeys {
			keys[i] = ident(k)
			skip[k] = true
		}
		var sets []string
		for _, c := range cols {
			if skip[c] {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
		}
		if len(sets) == 0 {
			// Keep DO UPDATE so RETURNING yields the existing row.
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", keys[0], keys[0]))
		}
		fmt.Fprintf(&sb, " ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(keys, ", "), strings.Join(sets, ", "))
	}

	sb.WriteString(" RETURNING to_jsonb(t)")
	return sb.String(), args
}

func buildUpdate(collection string, filter Filter, partial Record) (string, []interface{}, error) {
	if len(filter) == 0 {
		return "", nil, ErrEmptyFilter
	}
	cols := sortedKeys(partial)
	sets := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
		args[i] = normalize(partial[c])
	}
	where, whereArgs, err := whereClause(collection, filter, len(args))
	if err != nil {
		return "", nil, err
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("no columns to update in %s", collection)
	}
	query := fmt.Sprintf("UPDATE %s AS t SET %s%s RETURNING to_jsonb(t)",
		ident(collection), strings.Join(sets, ", "), where)
	return query, append(args, whereArgs...), nil
}

func buildDelete(collection string, filter Filter) (string, []interface{}, error) {
	if len(filter) == 0 {
		return "", nil, ErrEmptyFilter
	}
	schema, err := SchemaFor(collection)
	if err != nil {
		return "", nil, err
	}
	if schema.ReadOnly {
		return "", nil, ErrReadOnly
	}
	where, args, err := whereClause(collection, filter, 0)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("DELETE FROM %s AS t%s", ident(collection), where), args, nil
}

func buildCall(name string, args Record) (string, []interface{}, error) {
	params, ok := procedureArgs[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownProcedure, name)
	}
	parts := make([]string, len(params))
	values := make([]interface{}, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s => $%d", ident(p), i+1)
		values[i] = normalize(args[p])
	}
	return fmt.Sprintf("SELECT to_jsonb(%s(%s))", ident(name), strings.Join(parts, ", ")), values, nil
}
