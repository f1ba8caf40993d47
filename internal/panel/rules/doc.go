// Package rules builds text entry validators from declarative expressions.
//
// A rules file lists, per entry id, boolean expr-lang expressions the
// value must satisfy and the message shown when it does not:
//
//	rules:
//	  - entry: server.port
//	    expr: 'value matches "^[0-9]+$" && int(value) <= 65535'
//	    message: Port must be between 1 and 65535
//
// Expressions are compiled when the file is loaded, so mistakes are
// reported at startup rather than while the user types.
package rules
