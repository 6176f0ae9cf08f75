// Package core is the facade the CLI talks to. A Manager wires the layout,
// catalog, scanner, toggle engine, metadata store, load order file and the
// undo stack of one game install, and serialises every operation on them.
//
// Every user operation that changes state and can be reversed goes through
// the undo stack. Actions pushed on the stack call back into an unlocked
// target owned by the Manager, so undo and redo never re-enter the lock.
package core
