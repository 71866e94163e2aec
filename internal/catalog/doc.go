// Package catalog is the single source of truth for every discovered file
// and its classification state. Entries live in an in-memory SQLite database
// that is created at pipeline start and discarded at process exit; the file
// system, not the catalog, is what survives between runs.
//
// The invariant every stage maintains: an entry's Path always refers to a
// file that physically sits in the folder its Status implies. Entries whose
// relocation failed are parked in StatusInconsistent with the error recorded
// so the batch can continue.
package catalog
