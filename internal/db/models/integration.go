package models

// Endpoint is the connection part shared by every integration domain.
type Endpoint struct {
	Host    *string `gorm:"column:host;type:text"    mapstructure:"host,omitempty"`
	Port    *string `gorm:"column:port;type:text"    mapstructure:"port,omitempty"`
	APIKey  *string `gorm:"column:apikey;type:text"  mapstructure:"apikey,omitempty"`
	URLBase *string `gorm:"column:urlbase;type:text" mapstructure:"urlbase,omitempty"`
}

// Ombi holds the Ombi request service settings.
type Ombi struct {
	ID       uint `gorm:"column:id;primaryKey;autoIncrement:false" mapstructure:"-"`
	Endpoint `mapstructure:",squash"`

	Username     *string `gorm:"column:username;type:text"     mapstructure:"username,omitempty"`
	RequestMovie *string `gorm:"column:requestmovie;type:text" mapstructure:"requestmovie,omitempty"`
	RequestTV    *string `gorm:"column:requesttv;type:text"    mapstructure:"requesttv,omitempty"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (Ombi) TableName() string {
	return DomainOmbi
}

// Sonarr holds the Sonarr settings.
type Sonarr struct {
	ID       uint `gorm:"column:id;primaryKey;autoIncrement:false" mapstructure:"-"`
	Endpoint `mapstructure:",squash"`

	Profile         *string `gorm:"column:profile;type:text"         mapstructure:"profile,omitempty"`
	LanguageProfile *string `gorm:"column:languageprofile;type:text" mapstructure:"languageprofile,omitempty"`
	RootFolder      *string `gorm:"column:rootfolder;type:text"      mapstructure:"rootfolder,omitempty"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (Sonarr) TableName() string {
	return DomainSonarr
}

// Radarr holds the Radarr settings.
type Radarr struct {
	ID       uint `gorm:"column:id;primaryKey;autoIncrement:false" mapstructure:"-"`
	Endpoint `mapstructure:",squash"`

	Profile             *string `gorm:"column:profile;type:text"             mapstructure:"profile,omitempty"`
	RootFolder          *string `gorm:"column:rootfolder;type:text"          mapstructure:"rootfolder,omitempty"`
	MinimumAvailability *string `gorm:"column:minimumavailability;type:text" mapstructure:"minimumavailability,omitempty"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (Radarr) TableName() string {
	return DomainRadarr
}

// Tautulli holds the Tautulli settings.
type Tautulli struct {
	ID       uint `gorm:"column:id;primaryKey;autoIncrement:false" mapstructure:"-"`
	Endpoint `mapstructure:",squash"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (Tautulli) TableName() string {
	return DomainTautulli
}
