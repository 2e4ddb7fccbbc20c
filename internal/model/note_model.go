package model

type Note struct {
	ModelHash string `gorm:"column:model_hash;type:text;primaryKey"`
	Note      string `gorm:"column:note;type:text;not null"`
	ModelType string `gorm:"column:model_type;type:text;not null"`
}

func (Note) TableName() string {
	return "notes"
}

type Meta struct {
	Version string `gorm:"column:version;type:text;primaryKey"`
}

func (Meta) TableName() string {
	return "meta"
}
