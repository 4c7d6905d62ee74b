// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer to store titles, batches, issues, pages, OCR
// text and OCR dump metadata, and loads JSON fixtures into that schema.
package persistence
