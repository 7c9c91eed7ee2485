package config

// Endpoint holds the connection details of one remote management system.
type Endpoint struct {
	Host     string `mapstructure:"host"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Insecure bool   `mapstructure:"insecure"`
}

// VCDConfig identifies the Cloud Director endpoint and the objects the
// cleanup workflow operates on.
type VCDConfig struct {
	Endpoint `mapstructure:",squash"`

	// Organization is the tenant owning the source and target org VDCs.
	Organization string `mapstructure:"organization"`

	// SourceOrgVDC is the NSX-V backed org VDC to be torn down. The
	// target org VDC is derived from it by the migration marker suffix.
	SourceOrgVDC string `mapstructure:"source_org_vdc"`

	// SourceProviderVDC is the NSX-V backed provider VDC.
	SourceProviderVDC string `mapstructure:"source_provider_vdc"`

	// TargetProviderVDC is the NSX-T backed provider VDC.
	TargetProviderVDC string `mapstructure:"target_provider_vdc"`

	// ExternalNetwork is the provider-level network whose IP pool
	// absorbs ranges freed by the deleted source edge gateway.
	ExternalNetwork string `mapstructure:"external_network"`
}

// NSXTConfig identifies the NSX-T manager endpoint.
type NSXTConfig struct {
	Endpoint `mapstructure:",squash"`
}

// Config is the full migration cleanup configuration.
type Config struct {
	VCD  VCDConfig  `mapstructure:"vcd"`
	NSXT NSXTConfig `mapstructure:"nsxt"`
}
