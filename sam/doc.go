// Package sam normalizes SAM files for deterministic comparison.
//
// A normalized SAM alignment line keeps the eleven mandatory fields in
// their original order, and lists the optional fields after them,
// sorted as whole strings. Header lines, and lines with fewer than
// eleven tab-separated fields, are dropped. Two SAM files that carry
// the same alignments in the same order therefore normalize to the same
// bytes, even if the tools that wrote them emitted optional fields in a
// different order.
//
// Transform normalizes a stream one line at a time. ParallelTransform
// produces the same output using a pargo pipeline that normalizes
// batches of lines in parallel and writes them back in input order. See
// https://godoc.org/github.com/ExaScience/pargo/pipeline for details of
// pargo pipelines. Compare normalizes two streams and reports the
// records in which they differ.
//
// Open and Create handle standard input and output, and BGZF
// compression as produced by bgzip and samtools.
package sam
