package models

// General holds the web panel login.
type General struct {
	ID       uint    `gorm:"column:id;primaryKey;autoIncrement:false" mapstructure:"-"`
	Username *string `gorm:"column:username;type:text"                mapstructure:"username,omitempty"`
	Password *string `gorm:"column:password;type:text"                mapstructure:"password,omitempty"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (General) TableName() string {
	return DomainGeneral
}
