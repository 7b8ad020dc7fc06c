// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// All queries take the request context so that a cancelled request stops
// its database work. Writes spanning several tables run in a transaction.
package gorm
