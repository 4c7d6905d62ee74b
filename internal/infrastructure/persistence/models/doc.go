// Package models contains GORM database models for infrastructure layer.
// These models handle database persistence and are separated from domain entities;
// repositories convert with ToDomain and FromDomain.
package models
