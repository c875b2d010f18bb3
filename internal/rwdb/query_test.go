package rwdb_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/joestump/rwdb/internal/driver"
	"github.com/joestump/rwdb/internal/driver/drivertest"
	"github.com/joestump/rwdb/internal/rwdb"
)

func TestQuery_EscapesQuotesAndWildcards(t *testing.T) {
	c, _ := newClient(t, 1)

	_, err := c.Query(context.Background(), "SELECT * FROM people WHERE name = '%s'", rwdb.String("O'Brien%_"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := `SELECT * FROM people WHERE name = 'O\'Brien\%\_'`
	if got := c.LastQuery(); got != want {
		t.Errorf("LastQuery = %s, want %s", got, want)
	}
}

func TestQuery_Substitution(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		args     []rwdb.Value
		expected string
	}{
		{"no args", "DELETE FROM t", nil, "DELETE FROM t"},
		{"positional order", "UPDATE t SET a = '%s', b = %d WHERE c = '%s'",
			[]rwdb.Value{rwdb.String("x"), rwdb.Int(7), rwdb.String("y")},
			"UPDATE t SET a = 'x', b = 7 WHERE c = 'y'"},
		{"literal percent", "UPDATE t SET p = '100%%' WHERE id = %d", []rwdb.Value{rwdb.Int(1)},
			"UPDATE t SET p = '100%' WHERE id = 1"},
		{"null", "UPDATE t SET a = %s", []rwdb.Value{rwdb.Null()}, "UPDATE t SET a = NULL"},
		{"bool", "UPDATE t SET on = %d, off = %d", []rwdb.Value{rwdb.Bool(true), rwdb.Bool(false)},
			"UPDATE t SET on = 1, off = 0"},
		{"float", "UPDATE t SET f = %f", []rwdb.Value{rwdb.Float(2.5)}, "UPDATE t SET f = 2.5"},
		{"float as int", "UPDATE t SET n = %d", []rwdb.Value{rwdb.Float(2.9)}, "UPDATE t SET n = 2"},
		{"numeric string as int", "UPDATE t SET n = %d", []rwdb.Value{rwdb.String(" 12 ")}, "UPDATE t SET n = 12"},
		{"of converts", "UPDATE t SET a = %v, b = '%v'", []rwdb.Value{rwdb.Of(3), rwdb.Of("z")},
			"UPDATE t SET a = 3, b = 'z'"},
		{"backslash", "UPDATE t SET a = '%s'", []rwdb.Value{rwdb.String(`C:\tmp`)}, `UPDATE t SET a = 'C:\\tmp'`},
		{"unsigned", "UPDATE t SET a = %d, b = %d, c = %v", []rwdb.Value{rwdb.Of(uint64(math.MaxUint64)), rwdb.Of(uint(7)), rwdb.Of(uint64(9))},
			"UPDATE t SET a = 18446744073709551615, b = 7, c = 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t, 1)
			if _, err := c.Query(context.Background(), tt.tmpl, tt.args...); err != nil {
				t.Fatalf("Query: %v", err)
			}
			if got := c.LastQuery(); got != tt.expected {
				t.Errorf("LastQuery = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestQuery_TemplateMismatch(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args []rwdb.Value
	}{
		{"too few args", "UPDATE t SET a = '%s', b = '%s'", rwdb.Strings("x")},
		{"too many args", "UPDATE t SET a = '%s'", rwdb.Strings("x", "y")},
		{"bad verb", "UPDATE t SET a = '%q'", rwdb.Strings("x")},
		{"bare percent", "UPDATE t SET a = 5%", nil},
		{"non numeric int", "UPDATE t SET a = %d", rwdb.Strings("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, d := newClient(t, 1)
			_, err := c.Query(context.Background(), tt.tmpl, tt.args...)
			var qe *rwdb.QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("err = %T %v, want *QueryError", err, err)
			}
			if qe.SQL != tt.tmpl {
				t.Errorf("SQL = %q, want the template %q", qe.SQL, tt.tmpl)
			}
			if len(d.Execs()) != 0 {
				t.Errorf("driver executed %v", d.Execs())
			}
		})
	}
}

func TestQuery_Failure(t *testing.T) {
	c, d := newClient(t, 2)
	ctx := context.Background()
	d.Errors = map[string]error{"UPDATE missing": &drivertest.Error{Code: "1146", Message: "table 'shop.missing' doesn't exist"}}

	if _, err := c.Query(ctx, "UPDATE people SET age = 1"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if c.AffectedRows() != 1 {
		t.Fatalf("AffectedRows = %d, want 1", c.AffectedRows())
	}

	_, err := c.Query(ctx, "UPDATE missing SET a = %d", rwdb.Int(1))
	var qe *rwdb.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("err = %T %v, want *QueryError", err, err)
	}
	if qe.Code != "1146" || qe.SQL != "UPDATE missing SET a = 1" {
		t.Errorf("QueryError = %+v", qe)
	}
	if c.LastQuery() != "UPDATE missing SET a = 1" {
		t.Errorf("LastQuery = %q", c.LastQuery())
	}
	if c.AffectedRows() != 0 || c.NumRows() != 0 {
		t.Error("previous result survived a failed statement")
	}

	n, ok := c.Update(ctx, "UPDATE missing SET a = 2")
	if ok || n != 0 {
		t.Errorf("Update = %d, %v, want 0, false", n, ok)
	}
	if !errors.As(c.Err(), &qe) {
		t.Errorf("Err() = %v, want *QueryError", c.Err())
	}
}

func TestQuery_FreesPreviousResult(t *testing.T) {
	c, d := newClient(t, 1)
	ctx := context.Background()
	d.Responses = map[string]*driver.Outcome{
		"SELECT name": {Columns: []string{"name"}, Rows: [][]any{{"Alice"}, {"Bob"}}},
	}

	first, ok := c.SelectObject(ctx, "SELECT name FROM people")
	if !ok {
		t.Fatalf("SelectObject: %v", c.Err())
	}
	if c.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", c.NumRows())
	}
	if _, err := c.Query(ctx, "DELETE FROM people"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if first.Next() || first.NumRows() != 0 {
		t.Error("previous Result still holds rows")
	}

	c.Free()
	if c.NumRows() != 0 || c.AffectedRows() != 0 {
		t.Error("Free left a current Result")
	}
}

func TestAccessors(t *testing.T) {
	c, d := newClient(t, 2)
	ctx := context.Background()
	d.Responses = map[string]*driver.Outcome{
		"SELECT id, name": {Columns: []string{"id", "name"}, Rows: [][]any{{int64(1), "Alice"}, {int64(2), "Bob"}}},
		"SELECT age":      {Columns: []string{"age"}, Rows: [][]any{{int64(0)}}},
		"SELECT nothing":  {Columns: []string{"x"}, Rows: [][]any{}},
		"SELECT blank":    {Columns: []string{"s"}, Rows: [][]any{{""}}},
		"REPLACE":         {Affected: 2},
		"DELETE":          {Affected: 3},
	}

	rows, ok := c.Select(ctx, "SELECT id, name FROM people")
	if !ok {
		t.Fatalf("Select: %v", c.Err())
	}
	want := []rwdb.Row{{"id": int64(1), "name": "Alice"}, {"id": int64(2), "name": "Bob"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Select = %v, want %v", rows, want)
	}

	flat, ok := c.SelectFlat(ctx, "SELECT id, name FROM people")
	if !ok {
		t.Fatalf("SelectFlat: %v", c.Err())
	}
	if !reflect.DeepEqual(flat, []any{int64(1), "Alice", int64(2), "Bob"}) {
		t.Errorf("SelectFlat = %v", flat)
	}

	row, ok := c.SelectRow(ctx, "SELECT id, name FROM people")
	if !ok || !reflect.DeepEqual(row, want[0]) {
		t.Errorf("SelectRow = %v, %v", row, ok)
	}
	row, ok = c.SelectRow(ctx, "SELECT nothing FROM people")
	if !ok || row != nil {
		t.Errorf("SelectRow on zero rows = %v, %v, want nil, true", row, ok)
	}

	v, ok := c.SelectValue(ctx, "SELECT age FROM people WHERE name = 'Bob'")
	if !ok || v != int64(0) {
		t.Errorf("SelectValue = %v, %v, want 0, true", v, ok)
	}
	v, ok = c.SelectValue(ctx, "SELECT blank")
	if !ok || v != "" {
		t.Errorf("SelectValue = %#v, %v, want \"\", true", v, ok)
	}
	v, ok = c.SelectValue(ctx, "SELECT nothing")
	if !ok || v != nil {
		t.Errorf("SelectValue on zero rows = %v, %v, want nil, true", v, ok)
	}

	res, ok := c.SelectObject(ctx, "SELECT id, name FROM people")
	if !ok {
		t.Fatalf("SelectObject: %v", c.Err())
	}
	var names []any
	for res.Next() {
		names = append(names, res.Row()["name"])
	}
	if !reflect.DeepEqual(names, []any{"Alice", "Bob"}) {
		t.Errorf("iterated names = %v", names)
	}
	if !reflect.DeepEqual(res.Columns(), []string{"id", "name"}) || !res.HasRows() {
		t.Errorf("Columns = %v", res.Columns())
	}

	rr, ok := c.Replace(ctx, "REPLACE INTO people (id, name) VALUES (%d, '%s')", rwdb.Int(1), rwdb.String("Al"))
	if !ok || rr.AffectedRows() != 2 || rr.HasRows() {
		t.Errorf("Replace = %+v, %v", rr, ok)
	}
	n, ok := c.Delete(ctx, "DELETE FROM people")
	if !ok || n != 3 {
		t.Errorf("Delete = %d, %v, want 3, true", n, ok)
	}
}

func TestAccessors_FailureIsDistinctFromEmpty(t *testing.T) {
	c, d := newClient(t, 1)
	ctx := context.Background()
	d.Errors = map[string]error{"SELECT broken": &drivertest.Error{Code: "1064", Message: "syntax error"}}

	if rows, ok := c.Select(ctx, "SELECT broken"); ok || rows != nil {
		t.Errorf("Select = %v, %v", rows, ok)
	}
	if _, ok := c.SelectObject(ctx, "SELECT broken"); ok {
		t.Error("SelectObject ok on failure")
	}
	if _, ok := c.SelectFlat(ctx, "SELECT broken"); ok {
		t.Error("SelectFlat ok on failure")
	}
	if _, ok := c.SelectRow(ctx, "SELECT broken"); ok {
		t.Error("SelectRow ok on failure")
	}
	if _, ok := c.SelectValue(ctx, "SELECT broken"); ok {
		t.Error("SelectValue ok on failure")
	}
	if _, ok := c.Insert(ctx, "SELECT broken"); ok {
		t.Error("Insert ok on failure")
	}

	rows, ok := c.Select(ctx, "SELECT fine")
	if !ok || rows == nil || len(rows) != 0 {
		t.Errorf("Select on empty set = %v, %v, want [], true", rows, ok)
	}
}

func TestTransactions(t *testing.T) {
	c, d := newClient(t, 2)
	ctx := context.Background()

	// A read opens only the replica.
	if _, err := c.Query(ctx, "SELECT 1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := c.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	w, _ := c.Connect(ctx, rwdb.Write)
	fake := w.Driver().(*drivertest.Conn)
	if fake.Autocommit {
		t.Error("autocommit still on after Begin")
	}
	if _, err := c.Query(ctx, "SELECT 2"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if last := d.Execs()[len(d.Execs())-1]; last.Conn != fake.Name {
		t.Errorf("select inside transaction ran on %s, want %s", last.Conn, fake.Name)
	}

	if err := c.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if fake.Commits != 1 || !fake.Autocommit {
		t.Errorf("commits = %d autocommit = %v", fake.Commits, fake.Autocommit)
	}

	// Rollback without Begin is accepted.
	if err := c.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if fake.Rollbacks != 1 || !fake.Autocommit {
		t.Errorf("rollbacks = %d autocommit = %v", fake.Rollbacks, fake.Autocommit)
	}

	read := d.Conns()[0]
	if read.Commits != 0 || read.Rollbacks != 0 || !read.Autocommit {
		t.Error("read connection took part in a transaction")
	}
}

func TestTransactions_CommitWithoutConnectionOpensWrite(t *testing.T) {
	c, d := newClient(t, 2)
	if err := c.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(d.Conns()) != 1 || d.Conns()[0].Name != "primary[1]" || d.Conns()[0].Commits != 1 {
		t.Errorf("conns = %+v", d.Conns())
	}
}

func TestTransactions_ConnectFailure(t *testing.T) {
	c, d := newClient(t, 2)
	d.ConnectErr = map[string]error{"primary": errors.New("refused")}

	err := c.Begin(context.Background())
	var ce *rwdb.ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("Begin = %v, want *ConnectionError", err)
	}
}
