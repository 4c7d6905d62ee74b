// Package batches describes digitized newspaper batches: the titles they
// belong to, their issues, pages and the OCR output recorded for each page.
package batches
