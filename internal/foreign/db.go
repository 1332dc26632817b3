package foreign

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"
	"unicode/utf8"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"monkey/internal/object"
)

var (
	dbConnections  = map[int64]*sql.DB{}
	dbTransactions = map[int64]*sql.Tx{}
	lastHandleID   atomic.Int64
)

func fnDbConnect() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=2",
					len(args))
			}
			driver, errObj := unpackString(args[0], "argument to `dbConnect` (driver)")
			if errObj != nil {
				return errObj
			}
			dsn, errObj := unpackString(args[1], "argument to `dbConnect` (dsn)")
			if errObj != nil {
				return errObj
			}

			db, err := sql.Open(driver, dsn)
			if err != nil {
				return newError(object.IO_ERROR, "failed to open connection: %v", err)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return newError(object.IO_ERROR, "failed to ping database: %v", err)
			}

			id := lastHandleID.Add(1)
			dbConnections[id] = db
			slog.Debug("opened database connection",
				slog.String("driver", driver), slog.Int64("handle", id))
			return &object.Integer{Value: id}
		},
	}
}

func fnDbQuery() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) < 2 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=2+",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbQuery` (handle)")
			if errObj != nil {
				return errObj
			}
			query, errObj := unpackString(args[1], "argument to `dbQuery` (query)")
			if errObj != nil {
				return errObj
			}

			db, ok := dbConnections[id]
			if !ok {
				return newError(object.IO_ERROR, "invalid connection handle: %d", id)
			}

			params := bindParams(args[2:])

			var rows *sql.Rows
			var err error

			// An open transaction on the handle takes over its statements
			tx, isTx := dbTransactions[id]
			if isTx {
				rows, err = tx.Query(query, params...)
			} else {
				rows, err = db.Query(query, params...)
			}
			if err != nil {
				return newError(object.IO_ERROR, "query failed: %v", err)
			}
			defer rows.Close()

			return renderRows(rows)
		},
	}
}

func fnDbExec() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) < 2 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=2+",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbExec` (handle)")
			if errObj != nil {
				return errObj
			}
			query, errObj := unpackString(args[1], "argument to `dbExec` (statement)")
			if errObj != nil {
				return errObj
			}

			db, ok := dbConnections[id]
			if !ok {
				return newError(object.IO_ERROR, "invalid connection handle: %d", id)
			}

			params := bindParams(args[2:])

			var result sql.Result
			var err error

			tx, isTx := dbTransactions[id]
			if isTx {
				result, err = tx.Exec(query, params...)
			} else {
				result, err = db.Exec(query, params...)
			}
			if err != nil {
				return newError(object.IO_ERROR, "exec failed: %v", err)
			}

			// Not every driver reports both figures; missing ones read as 0
			affected, _ := result.RowsAffected()
			lastID, _ := result.LastInsertId()

			pairs := make(map[object.HashKey]object.HashPair, 2)
			putHashPair(pairs, "rowsAffected", &object.Integer{Value: affected})
			putHashPair(pairs, "lastInsertId", &object.Integer{Value: lastID})
			return &object.Hash{Pairs: pairs}
		},
	}
}

// Transaction control. A handle carries at most one open transaction, and
// dbQuery/dbExec route through it until commit or rollback.
func fnDbBegin() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbBegin` (handle)")
			if errObj != nil {
				return errObj
			}

			db, ok := dbConnections[id]
			if !ok {
				return newError(object.IO_ERROR, "invalid connection handle: %d", id)
			}
			if _, open := dbTransactions[id]; open {
				return newError(object.IO_ERROR, "transaction already open on handle: %d", id)
			}

			tx, err := db.Begin()
			if err != nil {
				return newError(object.IO_ERROR, "failed to begin transaction: %v", err)
			}

			dbTransactions[id] = tx
			return args[0]
		},
	}
}

func fnDbCommit() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbCommit` (handle)")
			if errObj != nil {
				return errObj
			}

			tx, ok := dbTransactions[id]
			if !ok {
				return newError(object.IO_ERROR, "no open transaction on handle: %d", id)
			}

			delete(dbTransactions, id)
			if err := tx.Commit(); err != nil {
				return newError(object.IO_ERROR, "failed to commit transaction: %v", err)
			}
			return args[0]
		},
	}
}

func fnDbRollback() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbRollback` (handle)")
			if errObj != nil {
				return errObj
			}

			tx, ok := dbTransactions[id]
			if !ok {
				return newError(object.IO_ERROR, "no open transaction on handle: %d", id)
			}

			delete(dbTransactions, id)
			if err := tx.Rollback(); err != nil {
				return newError(object.IO_ERROR, "failed to rollback transaction: %v", err)
			}
			return args[0]
		},
	}
}

func fnDbClose() *object.Builtin {
	return &object.Builtin{
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return newError(object.ARGUMENT_COUNT_MISMATCH, "wrong number of arguments. got=%d, want=1",
					len(args))
			}
			id, errObj := unpackInteger(args[0], "argument to `dbClose` (handle)")
			if errObj != nil {
				return errObj
			}

			// Closing is idempotent; an unknown handle is a no-op
			if tx, ok := dbTransactions[id]; ok {
				tx.Rollback()
				delete(dbTransactions, id)
			}
			if db, ok := dbConnections[id]; ok {
				db.Close()
				delete(dbConnections, id)
				slog.Debug("closed database connection", slog.Int64("handle", id))
			}
			return object.NIL
		},
	}
}

// bindParams converts script values into driver-level parameters. Anything
// without a direct SQL counterpart binds as its display form.
func bindParams(args []object.Object) []interface{} {
	params := make([]interface{}, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *object.Integer:
			params[i] = v.Value
		case *object.String:
			params[i] = v.Value
		case *object.Boolean:
			params[i] = v.Value
		case *object.Nil:
			params[i] = nil
		default:
			params[i] = arg.Inspect()
		}
	}
	return params
}

func renderRows(rows *sql.Rows) object.Object {
	columns, _ := rows.Columns()
	types, _ := rows.ColumnTypes()
	var resultRows []object.Object

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return newError(object.IO_ERROR, "scan failed: %v", err)
		}

		pairs := make(map[object.HashKey]object.HashPair, len(columns))
		for i, col := range columns {
			// Column type info helps mapValue decide on []byte values
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			putHashPair(pairs, col, mapValue(values[i], typeName))
		}
		resultRows = append(resultRows, &object.Hash{Pairs: pairs})
	}
	if err := rows.Err(); err != nil {
		return newError(object.IO_ERROR, "row iteration failed: %v", err)
	}

	return &object.Array{Elements: resultRows}
}

func putHashPair(pairs map[object.HashKey]object.HashPair, key string, value object.Object) {
	keyObj := &object.String{Value: key}
	pairs[keyObj.HashKey()] = object.HashPair{Key: keyObj, Value: value}
}

// mapValue converts a scanned column into a script value. There is only one
// numeric type, so non-integer numbers come back as strings the script can
// inspect or re-parse.
func mapValue(v interface{}, dbType string) object.Object {
	if v == nil {
		return object.NIL
	}
	switch x := v.(type) {
	case int64:
		return &object.Integer{Value: x}
	case float64:
		return &object.String{Value: strconv.FormatFloat(x, 'f', -1, 64)}
	case []byte:
		switch dbType {
		case "TEXT", "VARCHAR", "CHAR", "LONGTEXT", "MEDIUMTEXT", "TINYTEXT":
			return &object.String{Value: string(x)}
		case "BLOB", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB", "BINARY", "VARBINARY":
			return &object.String{Value: hex.EncodeToString(x)}
		default:
			if utf8.Valid(x) {
				return &object.String{Value: string(x)}
			}
			return &object.String{Value: hex.EncodeToString(x)}
		}
	case string:
		return &object.String{Value: x}
	case bool:
		if x {
			return object.TRUE
		}
		return object.FALSE
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
