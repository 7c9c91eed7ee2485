package config

import "fmt"

// Validate checks the configuration for missing or inconsistent fields
// and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if err := c.VCD.validate(); err != nil {
		return fmt.Errorf("vcd: %w", err)
	}
	if err := c.NSXT.validate(); err != nil {
		return fmt.Errorf("nsxt: %w", err)
	}
	return nil
}

func (e *Endpoint) validate() error {
	if e.Host == "" {
		return fmt.Errorf("host is required")
	}
	if e.Username == "" {
		return fmt.Errorf("username is required")
	}
	if e.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (c *VCDConfig) validate() error {
	if err := c.Endpoint.validate(); err != nil {
		return err
	}
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if c.SourceOrgVDC == "" {
		return fmt.Errorf("source_org_vdc is required")
	}
	if c.SourceProviderVDC == "" {
		return fmt.Errorf("source_provider_vdc is required")
	}
	if c.TargetProviderVDC == "" {
		return fmt.Errorf("target_provider_vdc is required")
	}
	if c.SourceProviderVDC == c.TargetProviderVDC {
		return fmt.Errorf("source and target provider VDCs must differ")
	}
	if c.ExternalNetwork == "" {
		return fmt.Errorf("external_network is required")
	}
	return nil
}

func (c *NSXTConfig) validate() error {
	return c.Endpoint.validate()
}
