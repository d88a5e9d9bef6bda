package models

// Domain names. Each one is also the name of its table.
const (
	DomainGeneral  = "general"
	DomainBot      = "bot"
	DomainOmbi     = "ombi"
	DomainSonarr   = "sonarr"
	DomainRadarr   = "radarr"
	DomainTautulli = "tautulli"
)

// Domains returns the names of all known configuration domains in display order.
func Domains() []string {
	return []string{
		DomainGeneral,
		DomainBot,
		DomainOmbi,
		DomainSonarr,
		DomainRadarr,
		DomainTautulli,
	}
}

// Integrations returns the domains that describe a third-party media service.
func Integrations() []string {
	return []string{DomainOmbi, DomainSonarr, DomainRadarr, DomainTautulli}
}

// All returns one zero value of every domain model, ready for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&General{},
		&Bot{},
		&Ombi{},
		&Sonarr{},
		&Radarr{},
		&Tautulli{},
	}
}
