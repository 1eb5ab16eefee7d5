// Package docreader reads and writes the structured documents resources are
// stored in.
//
// Reads accept JSON with comments and trailing commas and report malformed
// input as a *SyntaxError carrying a line and column. Writes are atomic:
// the document is written to a temporary file in the target directory and
// renamed into place, so an interrupted write leaves the original intact.
package docreader
