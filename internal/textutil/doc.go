// Package textutil holds small string helpers shared by the chapter reader
// and file naming code.
package textutil
