package foreign

import (
	"monkey/internal/object"
)

// GetForeignFunctions returns the host-backed builtins. The evaluator merges
// them into its builtin table, so scripts reach them like any other free
// identifier.
func GetForeignFunctions() map[string]*object.Builtin {
	return map[string]*object.Builtin{

		// database access
		"dbConnect":  fnDbConnect(),
		"dbQuery":    fnDbQuery(),
		"dbExec":     fnDbExec(),
		"dbBegin":    fnDbBegin(),
		"dbCommit":   fnDbCommit(),
		"dbRollback": fnDbRollback(),
		"dbClose":    fnDbClose(),
	}
}
