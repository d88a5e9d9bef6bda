package models

// Bot holds the Discord bot settings.
type Bot struct {
	ID                     uint    `gorm:"column:id;primaryKey;autoIncrement:false"      mapstructure:"-"`
	Token                  *string `gorm:"column:token;type:text"                        mapstructure:"token,omitempty"`
	OwnerID                *string `gorm:"column:ownerid;type:text"                      mapstructure:"ownerid,omitempty"`
	CommandPrefix          *string `gorm:"column:commandprefix;type:text"                mapstructure:"commandprefix,omitempty"`
	ChannelName            *string `gorm:"column:channelname;type:text"                  mapstructure:"channelname,omitempty"`
	UnknownCommandResponse *string `gorm:"column:unknowncommandresponse;type:text"       mapstructure:"unknowncommandresponse,omitempty"`
	DeleteCommandMessages  *string `gorm:"column:deletecommandmessages;type:text"        mapstructure:"deletecommandmessages,omitempty"`
	SilentTimeout          *string `gorm:"column:silenttimeout;type:text"                mapstructure:"silenttimeout,omitempty"`

	Extra map[string]interface{} `gorm:"-" mapstructure:",remain"`
}

// TableName implements gorm's tabler interface.
func (Bot) TableName() string {
	return DomainBot
}
