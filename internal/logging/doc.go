// Package logging is the structured logger shared by every primecalc
// component. Callers log through the Logger interface with typed Fields;
// the zerolog adapter writes JSON or console lines, and the standard
// library adapter serves code that hands out a *log.Logger.
package logging
