// Package prompt collects choices and free text from the user.
//
// Every prompt returns ErrCancelled when the user aborts, so handlers can
// stop before any git mutation takes place.
package prompt
