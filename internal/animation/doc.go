// Package animation renders generated frames onto a square canvas, reduces
// them to an indexed palette and encodes the result as GIF or APNG.
package animation
