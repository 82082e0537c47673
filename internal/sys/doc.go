// Package sys is an internal package that contains helper methods for dealing
// with Linux that are more complicated than basic wrappers. Basic wrappers
// belong in the public packages (fs, fd and friends).
package sys
