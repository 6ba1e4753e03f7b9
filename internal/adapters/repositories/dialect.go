package repositories

import (
	"strconv"
	"strings"
)

// Dialect captures the few places where SQLite and Postgres SQL differ.
// Queries are written with "?" placeholders and rebound per dialect.
type Dialect int

const (
	Sqlite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites "?" placeholders to "$1..$n" for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) jsonType() string {
	if d == Postgres {
		return "JSONB"
	}
	return "TEXT"
}

// DialectForDriver maps a database/sql driver name to its dialect.
func DialectForDriver(driver string) Dialect {
	if driver == "pgx" || driver == "postgres" {
		return Postgres
	}
	return Sqlite
}
