// Package batch translates CSV hospital lists. Files are read leniently and
// repaired so every row has the header's width, translated by a bounded
// pool of workers sharing one engine, and written back atomically.
package batch
