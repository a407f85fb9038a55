// Package git reads the state of the project repository so builds can be
// stamped with the commit they were produced from.
package git
