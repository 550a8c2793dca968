package config

// DefaultStateDBName is the layout database file name under ~/.hunkstage.
const DefaultStateDBName = "layouts.db"
