// Package dumps defines OCR dumps: bzip2 compressed tar archives bundling the
// OCR text and XML of every page of a batch, one archive per batch.
package dumps
