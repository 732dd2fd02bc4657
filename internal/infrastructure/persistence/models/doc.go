// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, TeamAggregateModel)
// - asset.go: Asset, Kit and their tag and membership rows
// - additional_file.go: the file pool and its asset/kit link rows
// - taxonomy.go: Category, Tag, Location
// - custom_field.go: field definitions, options, category links, values
// - team.go: Team and AuditEntry
//
// The SQL migrations under migrations/ are the schema of record. All is
// used for SQLite databases in development and tests.
package models

// All returns every model in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&TeamModel{},
		&CategoryModel{},
		&TagModel{},
		&LocationModel{},
		&AssetModel{},
		&AssetTagModel{},
		&KitModel{},
		&KitAssetModel{},
		&AdditionalFileModel{},
		&AssetAdditionalFileModel{},
		&KitAdditionalFileModel{},
		&CustomFieldModel{},
		&CustomFieldOptionModel{},
		&CustomFieldCategoryModel{},
		&CustomFieldValueModel{},
		&AuditEntryModel{},
	}
}
