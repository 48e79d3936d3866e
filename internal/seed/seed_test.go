package seed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/sqlask/sqlask/internal/storage"
)

const artistsScript = "CREATE TABLE artists (id INTEGER, name VARCHAR); INSERT INTO artists VALUES (1, 'AC/DC');"

func TestRunExecutesLocalScript(t *testing.T) {
	db, mock := newSQLMock(t)
	path := writeScript(t, artistsScript)

	mock.ExpectExec(regexp.QuoteMeta(artistsScript)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	counter := &fakeCounter{counts: []int{0, 1}}
	seeder := newTestSeeder(t, db, counter, nil)
	result, err := seeder.Run(context.Background(), Options{ScriptPath: path, SkipIfSeeded: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("Run() should not skip an empty database")
	}
	if result.Source != "file:"+path {
		t.Fatalf("Source = %q", result.Source)
	}
	if result.Bytes != len(artistsScript) || result.Tables != 1 {
		t.Fatalf("Result = %#v", result)
	}
	if counter.calls != 2 {
		t.Fatalf("CountTables calls = %d, want 2", counter.calls)
	}
	assertSQLMock(t, mock)
}

func TestRunSkipsSeededDatabase(t *testing.T) {
	db, mock := newSQLMock(t)
	seeder := newTestSeeder(t, db, &fakeCounter{counts: []int{11}}, nil)
	result, err := seeder.Run(context.Background(), Options{ScriptPath: "does-not-matter.sql", SkipIfSeeded: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Skipped || result.Tables != 11 {
		t.Fatalf("Result = %#v", result)
	}
	assertSQLMock(t, mock)
}

func TestRunPrefersObjectKey(t *testing.T) {
	db, mock := newSQLMock(t)
	scripts := &fakeScriptStore{objects: map[string]string{"chinook/chinook.sql": artistsScript}}

	mock.ExpectExec(regexp.QuoteMeta(artistsScript)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	seeder := newTestSeeder(t, db, &fakeCounter{counts: []int{1}}, scripts)
	result, err := seeder.Run(context.Background(), Options{ScriptPath: "ignored.sql", ObjectKey: "chinook/chinook.sql"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Source != "object:chinook/chinook.sql" {
		t.Fatalf("Source = %q", result.Source)
	}
	assertSQLMock(t, mock)
}

func TestRunWrapsExecutionError(t *testing.T) {
	db, mock := newSQLMock(t)
	path := writeScript(t, artistsScript)
	execErr := errors.New("Parser Error: syntax error")

	mock.ExpectExec(regexp.QuoteMeta(artistsScript)).WillReturnError(execErr)

	seeder := newTestSeeder(t, db, &fakeCounter{}, nil)
	_, err := seeder.Run(context.Background(), Options{ScriptPath: path})
	if !errors.Is(err, execErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, execErr)
	}
	assertSQLMock(t, mock)
}

func TestRunErrors(t *testing.T) {
	db, mock := newSQLMock(t)
	seeder := newTestSeeder(t, db, &fakeCounter{}, nil)

	if _, err := seeder.Run(context.Background(), Options{}); !errors.Is(err, ErrNoScript) {
		t.Fatalf("Run() error = %v, want ErrNoScript", err)
	}
	if _, err := seeder.Run(context.Background(), Options{ObjectKey: "chinook.sql"}); err == nil {
		t.Fatal("expected error without object store")
	}
	if _, err := seeder.Run(context.Background(), Options{ScriptPath: filepath.Join(t.TempDir(), "missing.sql")}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := seeder.Run(context.Background(), Options{ScriptPath: writeScript(t, "  \n")}); err == nil {
		t.Fatal("expected error for empty script")
	}

	missing := newTestSeeder(t, db, &fakeCounter{}, &fakeScriptStore{})
	if _, err := missing.Run(context.Background(), Options{ObjectKey: "gone.sql"}); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Run() error = %v, want ErrObjectNotFound", err)
	}
	assertSQLMock(t, mock)
}

func TestPublishUploadsScript(t *testing.T) {
	db, _ := newSQLMock(t)
	scripts := &fakeScriptStore{}
	seeder := newTestSeeder(t, db, &fakeCounter{}, scripts)
	path := writeScript(t, artistsScript)

	info, err := seeder.Publish(context.Background(), path, "chinook/chinook.sql")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if info.Key != "chinook/chinook.sql" || info.Size != int64(len(artistsScript)) {
		t.Fatalf("Publish() info = %#v", info)
	}
	if scripts.objects["chinook/chinook.sql"] != artistsScript {
		t.Fatalf("stored script = %q", scripts.objects["chinook/chinook.sql"])
	}
	if scripts.lastContentType != storage.ScriptContentType {
		t.Fatalf("content type = %q", scripts.lastContentType)
	}
}

func TestPublishRequiresObjectStore(t *testing.T) {
	db, _ := newSQLMock(t)
	seeder := newTestSeeder(t, db, &fakeCounter{}, nil)
	if _, err := seeder.Publish(context.Background(), writeScript(t, artistsScript), "a.sql"); err == nil {
		t.Fatal("expected error without object store")
	}
}

func TestNewSeederValidatesDependencies(t *testing.T) {
	if _, err := NewSeeder(nil, &fakeCounter{}, nil, nil); err == nil {
		t.Fatal("expected error for nil db")
	}
	db, _ := newSQLMock(t)
	if _, err := NewSeeder(db, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil table counter")
	}
}

type fakeCounter struct {
	counts []int
	calls  int
}

func (f *fakeCounter) CountTables(context.Context) (int, error) {
	f.calls++
	if len(f.counts) == 0 {
		return 0, nil
	}
	count := f.counts[0]
	if len(f.counts) > 1 {
		f.counts = f.counts[1:]
	}
	return count, nil
}

type fakeScriptStore struct {
	objects         map[string]string
	lastContentType string
}

func (f *fakeScriptStore) Put(_ context.Context, key string, body io.Reader, size int64, contentType string) (storage.ObjectInfo, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return storage.ObjectInfo{}, err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = buf.String()
	f.lastContentType = contentType
	return storage.ObjectInfo{Key: key, Size: size}, nil
}

func (f *fakeScriptStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewBufferString(body)), nil
}

func (f *fakeScriptStore) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	body, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(body))}, nil
}

func newTestSeeder(t *testing.T, db *sql.DB, tables TableCounter, scripts storage.ScriptStore) *Seeder {
	t.Helper()
	seeder, err := NewSeeder(db, tables, scripts, nil)
	if err != nil {
		t.Fatalf("NewSeeder() error = %v", err)
	}
	return seeder
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.sql")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
