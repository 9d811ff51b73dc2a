package database

import (
	"gorm.io/gorm"

	"github.com/nanaqwameboafo/trello-clone/internal/utils"
)

// Paginate limits a query to the requested page window. Activity listings
// apply it after their ordering clause.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
