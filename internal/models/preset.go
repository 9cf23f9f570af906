package models

import "time"

// Preset is a named, saved filter descriptor for one table
type Preset struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Table       string           `yaml:"table" json:"table"`
	Descriptor  FilterDescriptor `yaml:"descriptor" json:"descriptor"`
	CreatedAt   time.Time        `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time        `yaml:"last_used" json:"last_used"`
	UsageCount  int              `yaml:"usage_count" json:"usage_count"`
}
