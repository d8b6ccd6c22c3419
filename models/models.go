package models

// AllModels returns all models in migration order
func AllModels() []interface{} {
	return []interface{}{
		&TimeEntry{},
		&DataUpload{},
		&ETLHistory{},
	}
}
