package model

// BusinessInfo holds the business-wide values injected into every page.
type BusinessInfo struct {
	Name            string `yaml:"name"`
	Phone           string `yaml:"phone"`
	Host            string `yaml:"host"`    // apex domain, cities live on {slug}.{host}
	Service         string `yaml:"service"` // e.g. "Pest Control"
	LogoImage       string `yaml:"logoImage"`
	LocationToken   string `yaml:"locationToken"`
	PhoneToken      string `yaml:"phoneToken"`
	DefaultLocation string `yaml:"defaultLocation"`
}
