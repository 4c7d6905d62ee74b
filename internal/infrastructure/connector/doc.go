// Package connector mirrors OCR dumps to cloud object storage.
package connector
