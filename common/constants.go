package common

const (
	SrcFileExtension = ".mano"
	ModuleFileName   = "mano-mod.toml"
	ManoVersion      = "0.1.0"
)
