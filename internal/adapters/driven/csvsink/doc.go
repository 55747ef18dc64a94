// Package csvsink writes aligned extraction rows as a delimited text file.
//
// The format has no quoting. A backslash escapes the delimiter, the
// backslash itself, carriage returns and line feeds. Absent values are
// written as domain.Sentinel; a present value that happens to contain the
// sentinel text has its '|' characters escaped so the two never collide.
// Lines end with "\r\n".
//
// Output is written to a temporary file next to the destination and renamed
// into place, so a failed run never leaves a truncated file behind.
package csvsink
