// Package models holds the GORM row types for the customers table and the
// mapping to and from domain customers. Domain types never carry GORM tags.
package models
