// Package datarecording stores the results of trials in a SQLite database.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry into a table that already exists
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing names of all tables
	ListTables() []string

	// Flush flushes all the buffered entries into database
	Flush()

	// Close flushes and closes the database
	Close() error
}

// DefaultPath returns a fresh database file name.
func DefaultPath() string {
	return "checkoutsim_" + xid.New().String() + ".sqlite3"
}

// SQLiteRecorder is the DataRecorder that writes data into a SQLite database.
// Entries are buffered and written in batches, inside one transaction per
// batch.
type SQLiteRecorder struct {
	*sql.DB

	path       string
	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
}

type table struct {
	structType reflect.Type
	entries    []any
}

// NewSQLiteRecorder creates a database at path. It refuses to overwrite an
// existing file.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = DefaultPath()
	}

	_, err := os.Stat(path)
	if err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	r := &SQLiteRecorder{
		DB:        db,
		path:      path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

// WithBatchSize sets how many entries are buffered before a flush.
func (r *SQLiteRecorder) WithBatchSize(n int) *SQLiteRecorder {
	if n < 1 {
		n = 1
	}

	r.batchSize = n

	return r
}

// Path returns the file of the database.
func (r *SQLiteRecorder) Path() string {
	return r.path
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s has unsupported type %s",
				field.Name, field.Type)
		}
	}

	return nil
}

// CreateTable creates a table whose columns are named after the fields of the
// sample entry.
func (r *SQLiteRecorder) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := r.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	fields := strings.Join(structs.Names(sampleEntry), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	r.mustExecute(createTableSQL)

	r.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	r.tableNames = append(r.tableNames, tableName)
}

// InsertData buffers an entry. The entry must have the type of the sample
// entry the table was created with.
func (r *SQLiteRecorder) InsertData(tableName string, entry any) {
	table, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	table.entries = append(table.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

// ListTables returns the names of the tables in creation order.
func (r *SQLiteRecorder) ListTables() []string {
	names := make([]string, len(r.tableNames))
	copy(names, r.tableNames)

	return names
}

// Flush writes all the buffered entries.
func (r *SQLiteRecorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	for _, tableName := range r.tableNames {
		table := r.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		stmt := r.prepareStatement(tableName, table.entries[0])

		for _, entry := range table.entries {
			_, err := stmt.Exec(structs.Values(entry)...)
			if err != nil {
				panic(err)
			}
		}

		table.entries = nil

		stmt.Close()
	}

	r.entryCount = 0
}

// Close flushes the buffered entries and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.Flush()
	return r.DB.Close()
}

func (r *SQLiteRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (r *SQLiteRecorder) prepareStatement(tableName string, entry any) *sql.Stmt {
	n := structs.Names(entry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"
	sqlStr := "INSERT INTO " + tableName + " VALUES " + entryToFill

	stmt, err := r.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
