// Package types defines the Recipe entity, the store State record, the
// configuration struct, and the standard errors shared by the recipevault
// store, its persistence backends and the command-line front end.
package types
