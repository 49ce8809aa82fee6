// Package batch converts whole input trees: every notebook under an examples
// root, or every module of a set of Python packages.
//
// Files are discovered up front in lexical order, then converted one at a
// time. A failure while converting one file is recorded in the Report and the
// run moves on; only a missing input root aborts a run.
package batch
