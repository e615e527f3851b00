package model

// DriverNameMapping overrides the resolved display name for one driver
// number, optionally scoped to a team. See NameResolver (C7).
type DriverNameMapping struct {
	DriverNumber int
	Team         *F1Team // nil means "any team"
	Name         string
}

// DriverNameMappings is the externally supplied override table, loaded by
// pkg/config at startup (and reloadable at runtime).
type DriverNameMappings struct {
	Mappings []DriverNameMapping
}
