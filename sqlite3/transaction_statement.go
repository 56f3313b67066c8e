package sqlite3

import "strings"

// ParseTransactionStatement recognizes the statements that open, commit or
// roll back a whole transaction:
//
//	BEGIN [DEFERRED|IMMEDIATE|EXCLUSIVE] [TRANSACTION]
//	COMMIT|END [TRANSACTION]
//	ROLLBACK [TRANSACTION]
//
// Anything else, including SAVEPOINT, RELEASE and ROLLBACK TO, yields
// StatementUnknown. The mode is only meaningful for StatementBegin.
func ParseTransactionStatement(query string) (StatementKind, TransactionMode) {
	words := strings.Fields(strings.ToLower(strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")))
	if len(words) == 0 {
		return StatementUnknown, TransactionDeferred
	}

	rest := words[1:]
	switch words[0] {
	case "begin":
		mode := TransactionDeferred
		if len(rest) > 0 {
			if m := TransactionModes.Parse(rest[0]); m != nil {
				mode = *m
				rest = rest[1:]
			}
		}
		if isTransactionTail(rest) {
			return StatementBegin, mode
		}
	case "commit", "end":
		if isTransactionTail(rest) {
			return StatementCommit, TransactionDeferred
		}
	case "rollback":
		if isTransactionTail(rest) {
			return StatementRollback, TransactionDeferred
		}
	}
	return StatementUnknown, TransactionDeferred
}

// isTransactionTail reports whether words is empty or the lone optional
// TRANSACTION keyword.
func isTransactionTail(words []string) bool {
	return len(words) == 0 || (len(words) == 1 && words[0] == "transaction")
}
