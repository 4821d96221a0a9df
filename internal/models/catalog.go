package models

// Category is the single-valued classification of a Title, looked up by its
// slug in the API.
type Category struct {
	ID   string `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(256)" validate:"required,max=256"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
}

// Genre is the multi-valued classification of a Title.
type Genre struct {
	ID   string `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(256)" validate:"required,max=256"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
}

// Title is a reviewable work. Its rating is never stored; it is projected
// from the associated review scores on every read.
type Title struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string   `json:"name" gorm:"type:varchar(255)" validate:"required,max=255"`
	Year        int      `json:"year"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	CategoryID  string   `json:"-" gorm:"type:varchar(36)"`
	Category    Category `json:"category" gorm:"constraint:OnDelete:CASCADE"`
	Genres      []Genre  `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE"`
}
