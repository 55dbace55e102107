package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteWriter buffers records and writes them into a SQLite database in
// batches.
type SQLiteWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	records   []Record
	batchSize int
}

// NewSQLiteWriter creates a SQLiteWriter. The ".sqlite3" extension is
// appended to path. An empty path picks a unique name.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: 100000,
	}
}

// Path returns the database file. It is known after Init.
func (t *SQLiteWriter) Path() string {
	return t.dbName + ".sqlite3"
}

// Init creates the database and the trace table, and registers a flush at
// exit. It fails if the database file already exists.
func (t *SQLiteWriter) Init() error {
	if t.dbName == "" {
		t.dbName = "bpsim_trace_" + xid.New().String()
	}

	filename := t.Path()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("failed to open trace database: %w", err)
	}
	t.DB = db

	if err := t.createTable(); err != nil {
		t.abort()
		return err
	}

	t.statement, err = t.Prepare(`
		INSERT INTO trace (
			run_id, seq, predictor, op, address, table_key,
			counter, predicted, actual, correct
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		t.abort()
		return fmt.Errorf("failed to prepare trace statement: %w", err)
	}

	atexit.Register(func() {
		_ = t.Close()
	})

	return nil
}

func (t *SQLiteWriter) abort() {
	_ = t.DB.Close()
	t.DB = nil
}

func (t *SQLiteWriter) createTable() error {
	stmts := []string{`
		create table trace
		(
			run_id    varchar(20)  not null,
			seq       integer      not null,
			predictor varchar(20)  not null,
			op        varchar(10)  not null,
			address   varchar(200) not null,
			table_key varchar(200) not null,
			counter   varchar(64)  not null,
			predicted varchar(10)  not null,
			actual    varchar(10)  default '',
			correct   boolean      default false
		);`,
		`create index trace_run_seq_index on trace (run_id, seq);`,
		`create index trace_key_index on trace (table_key);`,
	}

	for _, s := range stmts {
		if _, err := t.Exec(s); err != nil {
			return fmt.Errorf("failed to create trace table: %w", err)
		}
	}

	return nil
}

// Write buffers a record, flushing when the batch is full.
func (t *SQLiteWriter) Write(r Record) error {
	t.records = append(t.records, r)
	if len(t.records) >= t.batchSize {
		return t.Flush()
	}
	return nil
}

// Flush writes all buffered records in one transaction.
func (t *SQLiteWriter) Flush() error {
	if len(t.records) == 0 || t.DB == nil {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin trace transaction: %w", err)
	}

	stmt := tx.Stmt(t.statement)
	for _, r := range t.records {
		_, err := stmt.Exec(
			r.RunID, r.Seq, r.Predictor, r.Op, r.Address, r.Key,
			r.Counter, r.Predicted, r.Actual, r.Correct,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert trace record %d: %w", r.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trace records: %w", err)
	}

	t.records = nil
	return nil
}

// Close flushes and closes the database. Closing twice is a no-op.
func (t *SQLiteWriter) Close() error {
	if t.DB == nil {
		return nil
	}

	if err := t.Flush(); err != nil {
		return err
	}

	_ = t.statement.Close()
	err := t.DB.Close()
	t.DB = nil
	return err
}
