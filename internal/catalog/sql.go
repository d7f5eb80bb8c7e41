package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLDriver is the database/sql driver behind java.sql.Connection.
const SQLDriver = "sqlite"

// Connection is an open SQLite database. It owns the *sql.DB and is closed
// when its last handle is released.
type Connection struct {
	db     *sql.DB
	dsn    string
	closed bool
}

// OpenConnection opens dsn with the SQLite driver and pings it.
func OpenConnection(dsn string) (*Connection, error) {
	db, err := sql.Open(SQLDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("SQLException: %w", err)
	}
	// :memory: databases are per connection; keep a single one so that
	// tables survive between statements.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("SQLException: %w", err)
	}
	return &Connection{db: db, dsn: dsn}, nil
}

func (c *Connection) String() string {
	state := "open"
	if c.closed {
		state = "closed"
	}
	return fmt.Sprintf("java.sql.Connection[%s, %s]", c.dsn, state)
}

// Close implements io.Closer. Closing twice is a no-op.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

var errConnectionClosed = errors.New("SQLException: connection is closed")

func (c *Connection) exec(query string) (int64, error) {
	if c.closed {
		return 0, errConnectionClosed
	}
	res, err := c.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("SQLException: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("SQLException: %w", err)
	}
	return n, nil
}

func (c *Connection) queryScalar(query string, dest any) error {
	if c.closed {
		return errConnectionClosed
	}
	err := c.db.QueryRow(query).Scan(dest)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("SQLException: query returned no rows")
	}
	if err != nil {
		return fmt.Errorf("SQLException: %w", err)
	}
	return nil
}

// Statement runs SQL against a shared Connection. Releasing a statement
// leaves its connection open.
type Statement struct {
	conn *Connection
}

func (s *Statement) String() string {
	return fmt.Sprintf("java.sql.Statement[%s]", s.conn.dsn)
}

func queryInt(c *Connection, args []any) (any, error) {
	q, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	var n sql.NullInt64
	if err := c.queryScalar(q, &n); err != nil {
		return nil, err
	}
	if !n.Valid {
		return nil, nil
	}
	return n.Int64, nil
}

func queryString(c *Connection, args []any) (any, error) {
	q, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	var s sql.NullString
	if err := c.queryScalar(q, &s); err != nil {
		return nil, err
	}
	if !s.Valid {
		return nil, nil
	}
	return s.String, nil
}

func execUpdate(c *Connection, args []any) (any, error) {
	q, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return c.exec(q)
}

func registerSQL(r *Registry, b *Builtins) {
	c := NewClass("java.sql.Connection", b.Object)
	b.Connection = c

	c.Ctor(func(args []any) (any, error) {
		dsn, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return OpenConnection(dsn)
	}, b.String)

	c.Method("execute", Int, func(recv any, args []any) (any, error) {
		return execUpdate(recv.(*Connection), args)
	}, b.String)
	c.Method("queryInt", Int, func(recv any, args []any) (any, error) {
		return queryInt(recv.(*Connection), args)
	}, b.String)
	c.Method("queryString", b.String, func(recv any, args []any) (any, error) {
		return queryString(recv.(*Connection), args)
	}, b.String)
	c.Method("isClosed", b.Boolean, func(recv any, _ []any) (any, error) {
		return recv.(*Connection).closed, nil
	})
	c.Method("close", nil, func(recv any, _ []any) (any, error) {
		return nil, recv.(*Connection).Close()
	})

	st := NewClass("java.sql.Statement", b.Object)
	b.Statement = st

	st.Ctor(func(args []any) (any, error) {
		v, err := arg(args, 0)
		if err != nil {
			return nil, err
		}
		conn, ok := v.(*Connection)
		if !ok {
			return nil, errors.New("NullPointerException: connection is null")
		}
		if conn.closed {
			return nil, errConnectionClosed
		}
		return &Statement{conn: conn}, nil
	}, c)

	st.Method("executeUpdate", Int, func(recv any, args []any) (any, error) {
		return execUpdate(recv.(*Statement).conn, args)
	}, b.String)
	st.Method("queryInt", Int, func(recv any, args []any) (any, error) {
		return queryInt(recv.(*Statement).conn, args)
	}, b.String)
	st.Method("queryString", b.String, func(recv any, args []any) (any, error) {
		return queryString(recv.(*Statement).conn, args)
	}, b.String)
	st.Method("getConnection", c, func(recv any, _ []any) (any, error) {
		return recv.(*Statement).conn, nil
	})

	r.Register(c, typeOf[*Connection]())
	r.Register(st, typeOf[*Statement]())
}
